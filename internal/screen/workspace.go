package screen

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lusoedu/sge-console/internal/metrics"
	"github.com/lusoedu/sge-console/internal/models"
	"github.com/lusoedu/sge-console/internal/upstream"
	"github.com/lusoedu/sge-console/pkg/config"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

// Env bundles the process-wide collaborators every workspace shares.
type Env struct {
	UpstreamURL     string
	UpstreamTimeout time.Duration
	Console         config.ConsoleConfig
	Validate        *validator.Validate
	Redis           *redis.Client
	Metrics         *metrics.Metrics
	Log             *zap.Logger
}

// Workspace is the server-held state for one logged-in console session: the
// platform credential plus every screen's canonical lists, drafts and search
// state. The workspace itself is the credential source for its platform
// client, so a token swapped on re-login is picked up by the next request.
type Workspace struct {
	ID string

	mu       sync.Mutex
	cred     models.Credential
	lastSeen time.Time

	Students  *StudentsScreen
	Staff     *StaffScreen
	Classes   *ClassesScreen
	Finances  *FinancesScreen
	Dashboard *DashboardScreen
	Consultas *ConsultasScreen
	Insights  *InsightsScreen
	Structure *SchoolConfigScreen
}

// NewWorkspace builds a workspace around a fresh platform credential.
func NewWorkspace(id string, cred models.Credential, env Env) *Workspace {
	if env.Log == nil {
		env.Log = zap.NewNop()
	}
	if env.Validate == nil {
		env.Validate = validator.New()
	}

	ws := &Workspace{ID: id, cred: cred, lastSeen: time.Now()}

	client := upstream.New(env.UpstreamURL, env.UpstreamTimeout, ws, env.Log)
	client.Observe = env.Metrics.ObserveUpstreamRequest

	ws.Students = newStudentsScreen(client, env, ws.guard)
	ws.Staff = newStaffScreen(client, env, ws.guard)
	ws.Classes = newClassesScreen(client, env, ws.guard)
	ws.Finances = newFinancesScreen(client, env, ws.guard)
	ws.Dashboard = newDashboardScreen(client, env, ws.guard)
	ws.Consultas = newConsultasScreen(client, env, ws.guard)
	ws.Insights = newInsightsScreen(client, env, ws.guard)
	ws.Structure = newSchoolConfigScreen(client, env, ws.guard)
	return ws
}

// Credential returns the workspace's platform token. Implements
// upstream.TokenSource.
func (w *Workspace) Credential() models.Credential {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cred
}

// SetCredential swaps the platform token after a re-login.
func (w *Workspace) SetCredential(cred models.Credential) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cred = cred
}

// Touch records activity for idle eviction.
func (w *Workspace) Touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = now
}

// IdleSince reports the last activity instant.
func (w *Workspace) IdleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Close tears down every screen: pending debounces stop, in-flight reads
// become stale, drafts are discarded.
func (w *Workspace) Close() {
	w.Students.Close()
	w.Staff.Close()
	w.Classes.Close()
	w.Finances.Close()
	w.Dashboard.Close()
	w.Consultas.Close()
	w.Insights.Close()
	w.Structure.Close()
}

// guard blocks loader fetches before any network I/O when no usable
// credential is present.
func (w *Workspace) guard() error {
	cred := w.Credential()
	if cred.Token == "" {
		return appErrors.ErrTokenMissing
	}
	if !cred.Valid(time.Now()) {
		return appErrors.ErrSessionExpired
	}
	return nil
}

// latest unwraps a single-aggregate collection.
func latest[T any](items []T) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[0], true
}
