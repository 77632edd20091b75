package screen

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lusoedu/sge-console/internal/models"
)

// Registry owns the live workspaces, keyed by opaque session id. Workspaces
// idle past the TTL are swept so an abandoned browser tab cannot pin screen
// state forever.
type Registry struct {
	mu      sync.Mutex
	env     Env
	byID    map[string]*Workspace
	idleTTL time.Duration
	log     *zap.Logger
}

// NewRegistry builds an empty registry.
func NewRegistry(env Env, idleTTL time.Duration) *Registry {
	log := env.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		env:     env,
		byID:    make(map[string]*Workspace),
		idleTTL: idleTTL,
		log:     log,
	}
}

// Create opens a workspace for a fresh platform credential and returns it.
func (r *Registry) Create(cred models.Credential) *Workspace {
	ws := NewWorkspace(uuid.NewString(), cred, r.env)

	r.mu.Lock()
	r.byID[ws.ID] = ws
	count := len(r.byID)
	r.mu.Unlock()

	r.env.Metrics.SetActiveWorkspaces(count)
	r.log.Info("workspace_opened", zap.String("session_id", ws.ID))
	return ws
}

// Get returns the workspace for a session id and marks it active.
func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mu.Lock()
	ws, ok := r.byID[id]
	r.mu.Unlock()
	if ok {
		ws.Touch(time.Now())
	}
	return ws, ok
}

// Remove closes and drops a workspace (logout).
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	ws, ok := r.byID[id]
	if ok {
		delete(r.byID, id)
	}
	count := len(r.byID)
	r.mu.Unlock()

	if !ok {
		return
	}
	ws.Close()
	r.env.Metrics.SetActiveWorkspaces(count)
	r.log.Info("workspace_closed", zap.String("session_id", id))
}

// Count returns the number of resident workspaces.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Sweep evicts workspaces idle past the TTL and returns how many it removed.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}

	r.mu.Lock()
	var expired []*Workspace
	for id, ws := range r.byID {
		if now.Sub(ws.IdleSince()) > r.idleTTL {
			delete(r.byID, id)
			expired = append(expired, ws)
		}
	}
	count := len(r.byID)
	r.mu.Unlock()

	for _, ws := range expired {
		ws.Close()
		r.log.Info("workspace_expired", zap.String("session_id", ws.ID))
	}
	if len(expired) > 0 {
		r.env.Metrics.SetActiveWorkspaces(count)
	}
	return len(expired)
}

// StartSweeper runs periodic eviction until the context is cancelled.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				r.Sweep(now)
			}
		}
	}()
}
