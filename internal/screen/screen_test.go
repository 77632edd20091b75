package screen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lusoedu/sge-console/internal/datasync"
	"github.com/lusoedu/sge-console/internal/models"
	"github.com/lusoedu/sge-console/pkg/config"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

// fakePlatform is a minimal stand-in for the school-management API.
type fakePlatform struct {
	mu    sync.Mutex
	hits  map[string]int
	mux   *http.ServeMux
	final int
}

func newFakePlatform() *fakePlatform {
	f := &fakePlatform{hits: make(map[string]int), mux: http.NewServeMux(), final: 14}

	f.mux.HandleFunc("/students/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			f.count("create_student")
			writeJSON(w, models.Student{ID: 99, Name: "Novo Aluno", ClassLabel: "7A"})
			return
		}
		f.count("list_students?" + r.URL.Query().Get("search"))
		writeJSON(w, []models.Student{
			{ID: 1, Name: "Ana Silva", ClassLabel: "7A", GuardianName: "Maria Silva"},
			{ID: 2, Name: "Bruno Costa", ClassLabel: "7B", GuardianName: "Rui Costa"},
		})
	})

	f.mux.HandleFunc("/financas/investimentos", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			f.count("create_investment")
			writeJSON(w, models.Investment{ID: 5, Kind: "Subsidio Estado", ApprovedValue: 1500})
			return
		}
		f.count("list_investments")
		writeJSON(w, []models.Investment{{ID: 5, Kind: "Subsidio Estado", ApprovedValue: 1500, RemainingBalance: 900}})
	})
	f.mux.HandleFunc("/financas/despesas", func(w http.ResponseWriter, r *http.Request) {
		f.count("list_expenses")
		writeJSON(w, []models.Expense{{ID: 7, Description: "Material escolar", Amount: 120.50}})
	})
	f.mux.HandleFunc("/financas/despesas/7", func(w http.ResponseWriter, r *http.Request) {
		f.count("delete_expense")
		w.WriteHeader(http.StatusConflict)
		writeJSON(w, map[string]string{"detail": "despesa com registos dependentes"})
	})
	f.mux.HandleFunc("/financas/balanco/anual", func(w http.ResponseWriter, r *http.Request) {
		f.count("balance")
		writeJSON(w, models.Balance{Period: "2026", TotalRevenue: 1500, TotalExpense: 600, Net: 900})
	})

	f.mux.HandleFunc("/staff/", func(w http.ResponseWriter, r *http.Request) {
		f.count("list_staff")
		writeJSON(w, []models.StaffMember{
			{ID: 1, Name: "Carla Mendes", Email: "carla@escola.ao", Role: "professor"},
			{ID: 2, Name: "Daniel Rocha", Email: "daniel@escola.ao", Role: "staff"},
		})
	})

	f.mux.HandleFunc("/turmas/3/details", func(w http.ResponseWriter, r *http.Request) {
		f.count("class_details")
		f.mu.Lock()
		final := f.final
		f.mu.Unlock()
		writeJSON(w, models.ClassDetails{
			Info:   models.ClassInfo{ID: 3, Name: "7A", SchoolYear: "2025/2026"},
			Grades: []models.ClassGrade{{StudentID: 1, DisciplineID: 2, P1: 12, P2: 15, Final: final}},
		})
	})
	f.mux.HandleFunc("/turmas/3/notas", func(w http.ResponseWriter, r *http.Request) {
		f.count("save_grade")
		f.mu.Lock()
		f.final = 16
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	f.mux.HandleFunc("/turmas/3/professores", func(w http.ResponseWriter, r *http.Request) {
		f.count("save_teachers")
		w.WriteHeader(http.StatusOK)
	})

	return f
}

func (f *fakePlatform) count(key string) {
	f.mu.Lock()
	f.hits[key]++
	f.mu.Unlock()
}

func (f *fakePlatform) get(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func testEnv(upstreamURL string) Env {
	return Env{
		UpstreamURL:     upstreamURL,
		UpstreamTimeout: 2 * time.Second,
		Console: config.ConsoleConfig{
			DefaultPageSize:  10,
			DebounceInterval: 300 * time.Millisecond,
			LookupCacheTTL:   time.Minute,
		},
		Validate: validator.New(),
		Log:      zap.NewNop(),
	}
}

func TestStudentsLoadAndView(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))
	require.NoError(t, ws.Students.Load(context.Background()))

	rows, pagination, state := ws.Students.View()
	assert.True(t, state.Loaded)
	assert.Empty(t, state.Error)
	assert.Equal(t, 2, pagination.TotalCount)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana Silva", rows[0].Name)
}

func TestStudentsSearchDebouncesToFinalTerm(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))

	ws.Students.Search("a")
	ws.Students.Search("an")
	ws.Students.Search("ana")

	time.Sleep(700 * time.Millisecond)

	assert.Equal(t, 0, platform.get("list_students?a"))
	assert.Equal(t, 0, platform.get("list_students?an"))
	assert.Equal(t, 1, platform.get("list_students?ana"))
}

func TestStudentsCreateAppendsServerEcho(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))
	require.NoError(t, ws.Students.Load(context.Background()))

	ws.Students.Create.OpenCreate(models.StudentCreateDraft{})
	require.NoError(t, ws.Students.Create.Update(func(d *models.StudentCreateDraft) {
		d.Name = "Novo Aluno"
		d.BirthDate = "2014-03-02"
		d.Gender = "M"
		d.SchoolYear = 7
		d.ClassLetter = "A"
	}))
	require.NoError(t, ws.Students.SubmitCreate(context.Background()))

	rows, _, _ := ws.Students.View()
	require.Len(t, rows, 3)
	// the server-assigned record lands in the list, not the draft
	assert.Equal(t, 99, rows[2].ID)
	assert.Equal(t, datasync.StateClosed, ws.Students.Create.State())
}

func TestStudentsCreateRejectsBadDraftWithoutNetwork(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))

	ws.Students.Create.OpenCreate(models.StudentCreateDraft{})
	require.NoError(t, ws.Students.Create.Update(func(d *models.StudentCreateDraft) {
		d.Name = "Sem Data"
		d.Gender = "X" // not M/F
		d.SchoolYear = 7
		d.ClassLetter = "A"
		d.BirthDate = "2014-03-02"
	}))
	err := ws.Students.SubmitCreate(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, platform.get("create_student"))
	assert.Equal(t, datasync.StateOpen, ws.Students.Create.State())
}

func TestStudentsSearchResetsPage(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))
	require.NoError(t, ws.Students.Load(context.Background()))

	ws.Students.SetPage(3)
	_, pagination, _ := ws.Students.View()
	assert.Equal(t, 3, pagination.Page)

	ws.Students.Search("ana")
	_, pagination, _ = ws.Students.View()
	assert.Equal(t, 1, pagination.Page)

	// repeating the same term keeps the page where it is
	ws.Students.SetPage(2)
	ws.Students.Search("ana")
	_, pagination, _ = ws.Students.View()
	assert.Equal(t, 2, pagination.Page)
}

func TestStaffFilterChangeResetsPage(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))
	require.NoError(t, ws.Staff.Load(context.Background()))

	ws.Staff.SetPage(4)
	_, pagination, _ := ws.Staff.View()
	assert.Equal(t, 4, pagination.Page)

	ws.Staff.SetFilters("", "professor")
	rows, pagination, _ := ws.Staff.View()
	assert.Equal(t, 1, pagination.Page)
	require.Len(t, rows, 1)
	assert.Equal(t, "Carla Mendes", rows[0].Name)

	// unchanged filters leave the page alone
	ws.Staff.SetPage(2)
	ws.Staff.SetFilters("", "professor")
	_, pagination, _ = ws.Staff.View()
	assert.Equal(t, 2, pagination.Page)
}

func TestClassTeachersDisciplineChangeClearsTeacher(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))
	require.NoError(t, ws.Classes.Select(context.Background(), 3))

	ws.Classes.Teachers.OpenEdit(models.TeacherAssignmentsDraft{Assignments: []models.TeacherAssignmentDraft{
		{DisciplineID: 1, TeacherID: 9},
		{DisciplineID: 5, TeacherID: 7},
	}})

	require.NoError(t, ws.Classes.PatchTeachers(models.TeacherAssignmentsDraft{Assignments: []models.TeacherAssignmentDraft{
		{DisciplineID: 2, TeacherID: 9},
		{DisciplineID: 5, TeacherID: 7},
	}}))

	draft, open := ws.Classes.Teachers.Draft()
	require.True(t, open)
	assert.Equal(t, 0, draft.Assignments[0].TeacherID)
	assert.Equal(t, 7, draft.Assignments[1].TeacherID)

	// the cleared row must be re-picked before the mapping can be saved
	err := ws.Classes.SubmitTeachers(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, platform.get("save_teachers"))
	assert.Equal(t, datasync.StateOpen, ws.Classes.Teachers.State())
}

func TestFinanceWriteRefetchesDerivedLists(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))
	require.NoError(t, ws.Finances.Load(context.Background(), 2026))

	before := platform.get("balance")

	ws.Finances.Investment.OpenCreate(models.InvestmentDraft{})
	require.NoError(t, ws.Finances.Investment.Update(func(d *models.InvestmentDraft) {
		d.Kind = "Subsidio Estado"
		d.Amount = 1500
		d.FundingYear = 2026
	}))
	require.NoError(t, ws.Finances.SubmitInvestment(context.Background()))

	// the platform owns the totals, so the write is followed by refetches
	assert.Equal(t, before+1, platform.get("balance"))
	assert.GreaterOrEqual(t, platform.get("list_investments"), 2)
}

func TestFinanceRejectsSubCentAmounts(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))

	ws.Finances.Investment.OpenCreate(models.InvestmentDraft{})
	require.NoError(t, ws.Finances.Investment.Update(func(d *models.InvestmentDraft) {
		d.Kind = "Doacao"
		d.Amount = 10.999
		d.FundingYear = 2026
	}))
	err := ws.Finances.SubmitInvestment(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, platform.get("create_investment"))
}

func TestExpenseDeleteRefusalKeepsList(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))
	require.NoError(t, ws.Finances.Load(context.Background(), 2026))

	err := ws.Finances.DeleteExpense(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, "despesa com registos dependentes", appErrors.FromError(err).Message)

	expenses, _ := ws.Finances.Expenses()
	require.Len(t, expenses, 1)
	assert.Equal(t, 7, expenses[0].ID)
}

func TestClassGradeSubmitRefetchesDetails(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))
	require.NoError(t, ws.Classes.Select(context.Background(), 3))

	details, _, ok := ws.Classes.Details()
	require.True(t, ok)
	assert.Equal(t, 14, details.Grades[0].Final)

	ws.Classes.GradeRow.OpenEdit(models.ClassGradeDraft{StudentID: 1, DisciplineID: 2, P1: 12, P2: 15, P3: 18})
	require.NoError(t, ws.Classes.SubmitGradeRow(context.Background()))

	// the final column comes back recomputed, never patched locally
	details, _, ok = ws.Classes.Details()
	require.True(t, ok)
	assert.Equal(t, 16, details.Grades[0].Final)
	assert.Equal(t, 2, platform.get("class_details"))
}

func TestClassGradeRejectsOutOfScaleMark(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))
	require.NoError(t, ws.Classes.Select(context.Background(), 3))

	ws.Classes.GradeRow.OpenEdit(models.ClassGradeDraft{StudentID: 1, DisciplineID: 2, P1: 25})
	err := ws.Classes.SubmitGradeRow(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, platform.get("save_grade"))
}

func TestWorkspaceGuardBlocksWithoutCredential(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{}, testEnv(srv.URL))
	err := ws.Students.Load(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.IsAuth(err))
	assert.Equal(t, 0, platform.get("list_students?"))

	_, _, state := ws.Students.View()
	assert.False(t, state.Loaded)
	assert.True(t, state.AuthError)
}

func TestRegistryLifecycle(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	registry := NewRegistry(testEnv(srv.URL), 30*time.Minute)
	ws := registry.Create(models.Credential{Token: "tok"})
	require.NotEmpty(t, ws.ID)

	got, ok := registry.Get(ws.ID)
	require.True(t, ok)
	assert.Same(t, ws, got)

	_, ok = registry.Get("missing")
	assert.False(t, ok)

	registry.Remove(ws.ID)
	_, ok = registry.Get(ws.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, registry.Count())
}

func TestRegistrySweepEvictsIdleWorkspaces(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	registry := NewRegistry(testEnv(srv.URL), 10*time.Minute)
	ws := registry.Create(models.Credential{Token: "tok"})
	ws.Touch(time.Now().Add(-time.Hour))

	active := registry.Create(models.Credential{Token: "tok"})

	assert.Equal(t, 1, registry.Sweep(time.Now()))
	_, ok := registry.Get(ws.ID)
	assert.False(t, ok)
	_, ok = registry.Get(active.ID)
	assert.True(t, ok)
}

func TestConfigBracketNeedsBaseValue(t *testing.T) {
	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	defer srv.Close()

	ws := NewWorkspace("ws-1", models.Credential{Token: "tok"}, testEnv(srv.URL))

	require.NoError(t, ws.Structure.OpenCreate(models.KindTuitionBrackets))
	require.NoError(t, ws.Structure.Draft.Update(func(d *models.ConfigDraft) {
		d.Name = "Escalao A"
	}))
	err := ws.Structure.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
