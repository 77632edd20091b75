package screen

import (
	"context"
	"io"
	"sync"

	"github.com/lusoedu/sge-console/internal/datasync"
	"github.com/lusoedu/sge-console/internal/models"
	"github.com/lusoedu/sge-console/internal/upstream"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

// StudentsScreen drives the roster page: server-side search through the
// debouncer, a grade sub-panel for the selected student, and the creation,
// profile and grade dialogs.
type StudentsScreen struct {
	client   *upstream.Client
	pageSize int

	mu        sync.Mutex
	search    string
	page      int
	selected  int
	profileID int

	col    *datasync.Collection[models.Student]
	loader *datasync.Loader[models.Student]

	grades       *datasync.Collection[models.Grade]
	gradesLoader *datasync.Loader[models.Grade]

	debounce *datasync.Debouncer

	Create  *datasync.Session[models.StudentCreateDraft]
	Profile *datasync.Session[models.StudentProfileDraft]
	Grade   *datasync.Session[models.GradeDraft]

	ctrl      *datasync.Controller[models.Student]
	gradeCtrl *datasync.Controller[models.Grade]

	disciplines *Lookup[models.Discipline]
}

func newStudentsScreen(client *upstream.Client, env Env, guard func() error) *StudentsScreen {
	s := &StudentsScreen{
		client:   client,
		pageSize: env.Console.DefaultPageSize,
		page:     1,
		col:      datasync.NewCollection(func(st models.Student) int { return st.ID }),
		grades:   datasync.NewCollection(func(g models.Grade) int { return g.ID }),
		debounce: datasync.NewDebouncer(env.Console.DebounceInterval),
		Create:   datasync.NewSession[models.StudentCreateDraft](env.Validate),
		Profile:  datasync.NewSession[models.StudentProfileDraft](env.Validate),
		Grade:    datasync.NewSession[models.GradeDraft](env.Validate),
	}
	s.col.OnStaleDrop = func() { env.Metrics.RecordStaleDrop("students") }
	s.grades.OnStaleDrop = func() { env.Metrics.RecordStaleDrop("students_grades") }
	s.debounce.OnSuppress = func() { env.Metrics.RecordDebounceSuppressed("students") }

	s.loader = datasync.NewLoader(s.col, func(ctx context.Context) ([]models.Student, error) {
		s.mu.Lock()
		term := s.search
		s.mu.Unlock()
		return client.ListStudents(ctx, upstream.StudentListParams{Search: term})
	}, guard)

	s.gradesLoader = datasync.NewLoader(s.grades, func(ctx context.Context) ([]models.Grade, error) {
		s.mu.Lock()
		id := s.selected
		s.mu.Unlock()
		if id == 0 {
			return nil, nil
		}
		return client.ListGrades(ctx, id)
	}, guard)

	s.ctrl = datasync.NewController(s.col, datasync.PatchLocal, s.loader.Load)
	s.gradeCtrl = datasync.NewController(s.grades, datasync.PatchLocal, s.gradesLoader.Load)

	s.disciplines = NewLookup("lookup:disciplinas", env.Console.LookupCacheTTL, env.Redis, env.Metrics,
		func(ctx context.Context) ([]models.Discipline, error) { return client.ListDisciplines(ctx) })
	return s
}

// Load performs the initial roster fetch.
func (s *StudentsScreen) Load(ctx context.Context) error {
	return s.loader.Load(ctx)
}

// Search records a new term and schedules the refetch behind the debounce
// window, so a typing burst issues one platform request for the final term.
// A term change snaps the roster window back to the first page.
func (s *StudentsScreen) Search(term string) {
	s.mu.Lock()
	if term != s.search {
		s.search = term
		s.page = 1
	}
	s.mu.Unlock()
	s.debounce.Trigger(func() {
		_ = s.loader.Load(context.Background())
	})
}

// SetPage moves the roster window. Pages below 1 clamp to the first page.
func (s *StudentsScreen) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
}

// Refresh bypasses the debounce window and refetches immediately.
func (s *StudentsScreen) Refresh(ctx context.Context) error {
	s.debounce.Stop()
	return s.loader.Load(ctx)
}

// View projects the canonical roster for the current page.
func (s *StudentsScreen) View() ([]models.Student, models.Pagination, models.ListState) {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	rows, pagination := datasync.Project(s.col.Snapshot(), datasync.Query[models.Student]{
		Page:     page,
		PageSize: s.pageSize,
	})
	return rows, pagination, s.col.State()
}

// Select points the grade panel at one student and loads their history.
func (s *StudentsScreen) Select(ctx context.Context, studentID int) error {
	s.mu.Lock()
	s.selected = studentID
	s.mu.Unlock()
	return s.gradesLoader.Load(ctx)
}

// Selected returns the student whose grades are shown, or 0.
func (s *StudentsScreen) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Grades returns the selected student's grade rows filtered to one school
// year; an empty year returns everything.
func (s *StudentsScreen) Grades(schoolYear string) ([]models.Grade, models.ListState) {
	rows, _ := datasync.Project(s.grades.Snapshot(), datasync.Query[models.Grade]{
		Match: func(g models.Grade) bool {
			return schoolYear == "" || g.SchoolYear == schoolYear
		},
	})
	return rows, s.grades.State()
}

// Disciplines serves the grade dialog's subject dropdown.
func (s *StudentsScreen) Disciplines(ctx context.Context) ([]models.Discipline, error) {
	return s.disciplines.Get(ctx)
}

// SubmitCreate validates and sends the creation draft; the server echo is
// appended to the roster.
func (s *StudentsScreen) SubmitCreate(ctx context.Context) error {
	return s.Create.Submit(ctx, func(ctx context.Context, draft models.StudentCreateDraft) error {
		_, err := s.ctrl.Create(ctx, func(ctx context.Context) (models.Student, error) {
			return s.client.CreateStudent(ctx, draft)
		})
		return err
	})
}

// OpenProfile seeds the profile dialog from the canonical roster record.
func (s *StudentsScreen) OpenProfile(studentID int) error {
	for _, st := range s.col.Snapshot() {
		if st.ID == studentID {
			s.mu.Lock()
			s.profileID = studentID
			s.mu.Unlock()
			s.Profile.OpenEdit(models.StudentProfileDraft{
				Name:         st.Name,
				Phone:        st.Phone,
				BirthDate:    st.BirthDate,
				Gender:       st.Gender,
				GuardianName: st.GuardianName,
			})
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

// OpenGrade opens the grade dialog: id 0 starts a blank row, otherwise the
// draft is seeded from the selected student's history.
func (s *StudentsScreen) OpenGrade(gradeID int) error {
	if gradeID == 0 {
		s.Grade.OpenCreate(models.GradeDraft{})
		return nil
	}
	for _, g := range s.grades.Snapshot() {
		if g.ID == gradeID {
			s.Grade.OpenEdit(models.GradeDraft{
				ID:           g.ID,
				DisciplineID: g.DisciplineID,
				P1:           g.P1,
				P2:           g.P2,
				P3:           g.P3,
				Exam:         g.Exam,
				Final:        g.Final,
				SchoolYear:   g.SchoolYear,
			})
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
}

// SubmitProfile validates and sends the profile edit for the student the
// dialog was opened on.
func (s *StudentsScreen) SubmitProfile(ctx context.Context) error {
	s.mu.Lock()
	studentID := s.profileID
	s.mu.Unlock()
	if studentID == 0 {
		return appErrors.ErrDraftClosed
	}
	return s.Profile.Submit(ctx, func(ctx context.Context, draft models.StudentProfileDraft) error {
		_, err := s.ctrl.Update(ctx, func(ctx context.Context) (models.Student, error) {
			return s.client.UpdateStudent(ctx, studentID, draft)
		})
		return err
	})
}

// Delete removes a student and drops the row locally on success.
func (s *StudentsScreen) Delete(ctx context.Context, studentID int) error {
	return s.ctrl.Delete(ctx, studentID, func(ctx context.Context) error {
		return s.client.DeleteStudent(ctx, studentID)
	})
}

// SubmitGrade validates and sends the grade draft. A draft carrying a grade
// id edits that row; otherwise a new row is created for the selected student.
func (s *StudentsScreen) SubmitGrade(ctx context.Context) error {
	studentID := s.Selected()
	return s.Grade.Submit(ctx, func(ctx context.Context, draft models.GradeDraft) error {
		if draft.ID != 0 {
			_, err := s.gradeCtrl.Update(ctx, func(ctx context.Context) (models.Grade, error) {
				return s.client.UpdateGrade(ctx, draft.ID, draft)
			})
			return err
		}
		if studentID == 0 {
			return appErrors.Clone(appErrors.ErrValidation, "no student selected")
		}
		_, err := s.gradeCtrl.Create(ctx, func(ctx context.Context) (models.Grade, error) {
			return s.client.CreateGrade(ctx, studentID, draft)
		})
		return err
	})
}

// DeleteGrade removes a grade row from the selected student's history.
func (s *StudentsScreen) DeleteGrade(ctx context.Context, gradeID int) error {
	return s.gradeCtrl.Delete(ctx, gradeID, func(ctx context.Context) error {
		return s.client.DeleteGrade(ctx, gradeID)
	})
}

// Import streams a roster spreadsheet to the platform's bulk import and
// refetches the roster so the new records appear.
func (s *StudentsScreen) Import(ctx context.Context, filename string, file io.Reader) (upstream.ImportResult, error) {
	result, err := s.client.ImportStudents(ctx, filename, file)
	if err != nil {
		return upstream.ImportResult{}, err
	}
	_ = s.loader.Load(ctx)
	return result, nil
}

// Rows returns the full canonical roster for exports.
func (s *StudentsScreen) Rows() []models.Student {
	return s.col.Snapshot()
}

// Close tears the screen down.
func (s *StudentsScreen) Close() {
	s.debounce.Stop()
	s.col.Reset()
	s.grades.Reset()
	s.Create.Cancel()
	s.Profile.Cancel()
	s.Grade.Cancel()
	s.mu.Lock()
	s.search = ""
	s.page = 1
	s.selected = 0
	s.profileID = 0
	s.mu.Unlock()
}
