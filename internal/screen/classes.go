package screen

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/lusoedu/sge-console/internal/datasync"
	"github.com/lusoedu/sge-console/internal/models"
	"github.com/lusoedu/sge-console/internal/upstream"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

// ClassesScreen drives the turmas page: the class lookup, the detail panel
// for the selected class, the batch grade grid, the teacher-assignment dialog
// and the year-end transition.
type ClassesScreen struct {
	client *upstream.Client

	mu       sync.Mutex
	selected int

	details       *datasync.Collection[models.ClassDetails]
	detailsLoader *datasync.Loader[models.ClassDetails]

	GradeRow *datasync.Session[models.ClassGradeDraft]
	Teachers *datasync.Session[models.TeacherAssignmentsDraft]

	classes *Lookup[models.ClassSummary]
}

func newClassesScreen(client *upstream.Client, env Env, guard func() error) *ClassesScreen {
	s := &ClassesScreen{
		client:   client,
		details:  datasync.NewCollection[models.ClassDetails](nil),
		GradeRow: datasync.NewSession[models.ClassGradeDraft](env.Validate),
		Teachers: datasync.NewSession(env.Validate, noDuplicateDisciplines),
	}
	s.details.OnStaleDrop = func() { env.Metrics.RecordStaleDrop("classes") }

	s.detailsLoader = datasync.NewLoader(s.details, func(ctx context.Context) ([]models.ClassDetails, error) {
		s.mu.Lock()
		id := s.selected
		s.mu.Unlock()
		if id == 0 {
			return nil, nil
		}
		details, err := client.ClassDetails(ctx, id)
		if err != nil {
			return nil, err
		}
		return []models.ClassDetails{details}, nil
	}, guard)

	s.classes = NewLookup("lookup:turmas", env.Console.LookupCacheTTL, env.Redis, env.Metrics,
		func(ctx context.Context) ([]models.ClassSummary, error) { return client.ListClasses(ctx) })
	return s
}

// noDuplicateDisciplines rejects an assignment set naming a discipline twice.
func noDuplicateDisciplines(d *models.TeacherAssignmentsDraft) error {
	seen := make(map[int]bool, len(d.Assignments))
	for _, a := range d.Assignments {
		if seen[a.DisciplineID] {
			return errors.New("discipline assigned more than once")
		}
		seen[a.DisciplineID] = true
	}
	return nil
}

// Classes serves the year and class dropdowns.
func (s *ClassesScreen) Classes(ctx context.Context) ([]models.ClassSummary, error) {
	return s.classes.Get(ctx)
}

// Select points the detail panel at one class and loads it. Switching classes
// quickly is safe: the generation guard discards the slower response.
func (s *ClassesScreen) Select(ctx context.Context, classID int) error {
	s.mu.Lock()
	s.selected = classID
	s.mu.Unlock()
	return s.detailsLoader.Load(ctx)
}

// Selected returns the class shown in the detail panel, or 0.
func (s *ClassesScreen) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Details returns the selected class's detail payload.
func (s *ClassesScreen) Details() (models.ClassDetails, models.ListState, bool) {
	details, ok := latest(s.details.Snapshot())
	return details, s.details.State(), ok
}

// Refresh refetches the selected class's details.
func (s *ClassesScreen) Refresh(ctx context.Context) error {
	return s.detailsLoader.Load(ctx)
}

// SubmitGradeRow validates and writes one row of the grade grid, then
// refetches the details. The refetch is not optional: the platform computes
// the final column and a local patch would drift from it.
func (s *ClassesScreen) SubmitGradeRow(ctx context.Context) error {
	classID := s.Selected()
	if classID == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no class selected")
	}
	return s.GradeRow.Submit(ctx, func(ctx context.Context, draft models.ClassGradeDraft) error {
		if err := s.client.SaveClassGrade(ctx, classID, draft); err != nil {
			return err
		}
		return s.detailsLoader.Load(ctx)
	})
}

// PatchTeachers replaces the assignment rows of the open teacher dialog. A
// row whose discipline changed loses its teacher pick: the eligible teachers
// depend on the discipline's department, so the old pick no longer applies
// and the user must choose again before the draft can be submitted.
func (s *ClassesScreen) PatchTeachers(next models.TeacherAssignmentsDraft) error {
	return s.Teachers.Update(func(d *models.TeacherAssignmentsDraft) {
		for i := range next.Assignments {
			if i < len(d.Assignments) && next.Assignments[i].DisciplineID != d.Assignments[i].DisciplineID {
				next.Assignments[i].TeacherID = 0
			}
		}
		d.Assignments = next.Assignments
	})
}

// SubmitTeachers validates and replaces the class's teacher mapping, then
// refetches the details.
func (s *ClassesScreen) SubmitTeachers(ctx context.Context) error {
	classID := s.Selected()
	if classID == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no class selected")
	}
	return s.Teachers.Submit(ctx, func(ctx context.Context, draft models.TeacherAssignmentsDraft) error {
		if err := s.client.SaveClassTeachers(ctx, classID, draft.Assignments); err != nil {
			return err
		}
		return s.detailsLoader.Load(ctx)
	})
}

// Transition runs the platform's year-end promotion. On success the class
// lookup cache is invalidated and the detail panel refetched, since the
// platform rewrote the rosters.
func (s *ClassesScreen) Transition(ctx context.Context) (models.TransitionResult, error) {
	result, err := s.client.RunGlobalTransition(ctx)
	if err != nil {
		return models.TransitionResult{}, err
	}
	s.classes.Invalidate(ctx)
	if s.Selected() != 0 {
		_ = s.detailsLoader.Load(ctx)
	}
	return result, nil
}

// Export streams the platform's spreadsheet for the selected class.
func (s *ClassesScreen) Export(ctx context.Context) (io.ReadCloser, string, error) {
	classID := s.Selected()
	if classID == 0 {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "no class selected")
	}
	return s.client.ExportClass(ctx, classID)
}

// Close tears the screen down.
func (s *ClassesScreen) Close() {
	s.details.Reset()
	s.GradeRow.Cancel()
	s.Teachers.Cancel()
	s.mu.Lock()
	s.selected = 0
	s.mu.Unlock()
}
