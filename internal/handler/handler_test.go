package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lusoedu/sge-console/internal/metrics"
	"github.com/lusoedu/sge-console/internal/middleware"
	"github.com/lusoedu/sge-console/internal/models"
	"github.com/lusoedu/sge-console/internal/screen"
	"github.com/lusoedu/sge-console/internal/upstream"
	"github.com/lusoedu/sge-console/pkg/config"
	"github.com/lusoedu/sge-console/pkg/storage"
)

// fakePlatform stands in for the school-management API behind the gateway.
type fakePlatform struct {
	mu   sync.Mutex
	hits map[string]int
	mux  *http.ServeMux
}

func newFakePlatform() *fakePlatform {
	f := &fakePlatform{hits: make(map[string]int), mux: http.NewServeMux()}

	f.mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		f.count("login")
		_ = r.ParseForm()
		if r.PostFormValue("password") != "segredo" {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(w, map[string]string{"detail": "credenciais invalidas"})
			return
		}
		writeJSON(w, models.TokenResponse{AccessToken: "tok-opaque", TokenType: "bearer"})
	})

	f.mux.HandleFunc("/students/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			f.count("create_student")
			writeJSON(w, models.Student{ID: 99, Name: "Novo Aluno", ClassLabel: "7A"})
			return
		}
		f.count("list_students")
		writeJSON(w, []models.Student{
			{ID: 1, Name: "Ana Silva", ClassLabel: "7A", GuardianName: "Maria Silva"},
			{ID: 2, Name: "Bruno Costa", ClassLabel: "7B", GuardianName: "Rui Costa"},
		})
	})

	f.mux.HandleFunc("/financas/balanco/anual", func(w http.ResponseWriter, r *http.Request) {
		f.count("balance_" + r.URL.Query().Get("ano"))
		writeJSON(w, models.Balance{Period: r.URL.Query().Get("ano"), TotalRevenue: 1500, TotalExpense: 600, Net: 900})
	})
	f.mux.HandleFunc("/financas/balanco/mensal", func(w http.ResponseWriter, r *http.Request) {
		f.count("balance_monthly")
		writeJSON(w, models.Balance{Period: r.URL.Query().Get("ano") + "-" + r.URL.Query().Get("mes")})
	})
	f.mux.HandleFunc("/financas/investimentos", func(w http.ResponseWriter, r *http.Request) {
		f.count("list_investments")
		writeJSON(w, []models.Investment{})
	})
	f.mux.HandleFunc("/financas/despesas", func(w http.ResponseWriter, r *http.Request) {
		f.count("list_expenses")
		writeJSON(w, []models.Expense{})
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

type gateway struct {
	router   *gin.Engine
	platform *fakePlatform
	registry *screen.Registry
	store    *storage.LocalStorage
	signer   *storage.DownloadSigner
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	gin.SetMode(gin.TestMode)

	platform := newFakePlatform()
	srv := httptest.NewServer(platform.mux)
	t.Cleanup(srv.Close)

	m := metrics.New()
	env := screen.Env{
		UpstreamURL:     srv.URL,
		UpstreamTimeout: 2 * time.Second,
		Console: config.ConsoleConfig{
			DefaultPageSize:  10,
			DebounceInterval: 300 * time.Millisecond,
			LookupCacheTTL:   time.Minute,
		},
		Validate: validator.New(),
		Metrics:  m,
		Log:      zap.NewNop(),
	}
	registry := screen.NewRegistry(env, 30*time.Minute)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewDownloadSigner("test-secret", time.Hour)

	router := NewRouter(RouterDeps{
		Config:      &config.Config{Env: config.EnvProduction},
		Log:         zap.NewNop(),
		Registry:    registry,
		LoginClient: upstream.New(srv.URL, 2*time.Second, nil, zap.NewNop()),
		Metrics:     m,
		Store:       store,
		Signer:      signer,
	})

	return &gateway{router: router, platform: platform, registry: registry, store: store, signer: signer}
}

func (g *gateway) do(method, path, session string, body interface{}) *httptest.ResponseRecorder {
	var payload *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	g.router.ServeHTTP(rec, req)
	return rec
}

func (g *gateway) login(t *testing.T) string {
	t.Helper()
	rec := g.do(http.MethodPost, "/auth/login", "", models.LoginRequest{Username: "admin", Password: "segredo"})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.SessionID)
	return envelope.Data.SessionID
}

func TestLoginIssuesSession(t *testing.T) {
	g := newGateway(t)

	id := g.login(t)
	assert.Equal(t, 1, g.registry.Count())

	_, ok := g.registry.Get(id)
	assert.True(t, ok)
}

func TestLoginRejectionKeepsPlatformDetail(t *testing.T) {
	g := newGateway(t)

	rec := g.do(http.MethodPost, "/auth/login", "", models.LoginRequest{Username: "admin", Password: "errada"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "credenciais invalidas")
	assert.Equal(t, 0, g.registry.Count())
}

func TestLoginRequiresCredentials(t *testing.T) {
	g := newGateway(t)

	rec := g.do(http.MethodPost, "/auth/login", "", models.LoginRequest{Username: "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, g.platform.get("login"))
}

func TestScreensRejectMissingOrStaleSession(t *testing.T) {
	g := newGateway(t)

	rec := g.do(http.MethodGet, "/screens/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_MISSING")

	rec = g.do(http.MethodGet, "/screens/students", "not-a-session", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "SESSION_EXPIRED")
}

func TestStudentsListThroughGateway(t *testing.T) {
	g := newGateway(t)
	session := g.login(t)

	rec := g.do(http.MethodGet, "/screens/students", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data       []models.Student  `json:"data"`
		Pagination models.Pagination `json:"pagination"`
		Meta       struct {
			ListState models.ListState `json:"list_state"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "Ana Silva", envelope.Data[0].Name)
	assert.Equal(t, 2, envelope.Pagination.TotalCount)
	assert.True(t, envelope.Meta.ListState.Loaded)
}

func TestStudentCreateDraftRoundTrip(t *testing.T) {
	g := newGateway(t)
	session := g.login(t)

	rec := g.do(http.MethodPost, "/screens/students/drafts/create", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"open"`)

	// fields land one patch at a time, absent fields keep their value
	rec = g.do(http.MethodPut, "/screens/students/drafts/create", session, map[string]interface{}{"Nome": "Novo Aluno"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = g.do(http.MethodPut, "/screens/students/drafts/create", session, map[string]interface{}{
		"Data_Nasc":   "2014-03-02",
		"Genero":      "M",
		"Ano":         7,
		"Turma_Letra": "A",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Novo Aluno")

	rec = g.do(http.MethodPost, "/screens/students/drafts/create/submit", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"closed"`)
	assert.Equal(t, 1, g.platform.get("create_student"))
}

func TestStudentDraftSubmitRejectsInvalidWithoutNetwork(t *testing.T) {
	g := newGateway(t)
	session := g.login(t)

	rec := g.do(http.MethodPost, "/screens/students/drafts/create", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = g.do(http.MethodPut, "/screens/students/drafts/create", session, map[string]interface{}{
		"Nome":   "Sem Turma",
		"Genero": "X",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = g.do(http.MethodPost, "/screens/students/drafts/create/submit", session, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, g.platform.get("create_student"))
}

func TestDraftPatchRejectsMalformedBody(t *testing.T) {
	g := newGateway(t)
	session := g.login(t)

	rec := g.do(http.MethodPost, "/screens/students/drafts/create", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/screens/students/drafts/create", strings.NewReader("{not json"))
	req.Header.Set(middleware.SessionHeader, session)
	out := httptest.NewRecorder()
	g.router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestStudentsSearchRequestResetsPage(t *testing.T) {
	g := newGateway(t)
	session := g.login(t)

	rec := g.do(http.MethodGet, "/screens/students?page=5", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"page":5`)

	// a new search term snaps the roster back to the first page
	rec = g.do(http.MethodGet, "/screens/students?search=ana&page=5", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"page":1`)
}

func TestFinanceViewFollowsRequestedPeriod(t *testing.T) {
	g := newGateway(t)
	session := g.login(t)

	rec := g.do(http.MethodGet, "/screens/finances?ano=2025", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"periodo":"2025"`)
	assert.Equal(t, 1, g.platform.get("balance_2025"))

	// a later request for another year must not serve the 2025 balance
	rec = g.do(http.MethodGet, "/screens/finances?ano=2026", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"periodo":"2026"`)
	assert.Equal(t, 1, g.platform.get("balance_2026"))

	// narrowing to a month and widening back both reload the balance
	rec = g.do(http.MethodGet, "/screens/finances?ano=2026&mes=3", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"periodo":"2026-3"`)

	rec = g.do(http.MethodGet, "/screens/finances?ano=2026", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"periodo":"2026"`)

	// an unchanged period is served from the workspace without a refetch
	rec = g.do(http.MethodGet, "/screens/finances?ano=2026", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, g.platform.get("balance_2026"))
}

func TestClassTeacherDraftPatchReplacesRows(t *testing.T) {
	g := newGateway(t)
	session := g.login(t)

	rec := g.do(http.MethodPost, "/screens/classes/drafts/teachers", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = g.do(http.MethodPut, "/screens/classes/drafts/teachers", session, models.TeacherAssignmentsDraft{
		Assignments: []models.TeacherAssignmentDraft{{DisciplineID: 2, TeacherID: 9}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"professor_id":9`)

	req := httptest.NewRequest(http.MethodPut, "/screens/classes/drafts/teachers", strings.NewReader("{not json"))
	req.Header.Set(middleware.SessionHeader, session)
	out := httptest.NewRecorder()
	g.router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	g := newGateway(t)
	session := g.login(t)

	rec := g.do(http.MethodPost, "/auth/logout", session, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, g.registry.Count())

	rec = g.do(http.MethodGet, "/screens/students", session, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDownloadServesStagedExport(t *testing.T) {
	g := newGateway(t)

	_, err := g.store.Save("turmas/3/pauta.xlsx", []byte("conteudo"))
	require.NoError(t, err)

	token, _, err := g.signer.Generate("exp-1", "turmas/3/pauta.xlsx")
	require.NoError(t, err)

	rec := g.do(http.MethodGet, "/downloads/"+token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "conteudo", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "pauta.xlsx")
}

func TestDownloadRejectsTamperedToken(t *testing.T) {
	g := newGateway(t)

	token, _, err := g.signer.Generate("exp-1", "turmas/3/pauta.xlsx")
	require.NoError(t, err)

	rec := g.do(http.MethodGet, "/downloads/"+token+"ff", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	g := newGateway(t)

	rec := g.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = g.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
