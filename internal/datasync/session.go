package datasync

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

// SessionState tracks the edit-dialog lifecycle.
type SessionState string

const (
	StateClosed     SessionState = "closed"
	StateOpen       SessionState = "open"
	StateSubmitting SessionState = "submitting"
)

// SessionMode distinguishes creation from editing.
type SessionMode string

const (
	ModeCreate SessionMode = "create"
	ModeEdit   SessionMode = "edit"
)

// Rule is a cross-field constraint checked after struct-tag validation.
type Rule[D any] func(*D) error

// Session is a transient draft of one entity being created or edited. The
// draft never touches a canonical list: a successful submit hands it to a
// write controller and closes the dialog; a failed submit keeps the dialog
// open and resubmittable; cancel discards it without side effects.
type Session[D any] struct {
	mu       sync.Mutex
	state    SessionState
	mode     SessionMode
	draft    D
	validate *validator.Validate
	rules    []Rule[D]
	lastErr  error
}

// NewSession builds a closed session sharing the given validator instance.
func NewSession[D any](v *validator.Validate, rules ...Rule[D]) *Session[D] {
	if v == nil {
		v = validator.New()
	}
	return &Session[D]{state: StateClosed, validate: v, rules: rules}
}

// OpenCreate starts a creation draft from a blank template.
func (s *Session[D]) OpenCreate(blank D) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateOpen
	s.mode = ModeCreate
	s.draft = deepCopy(blank)
	s.lastErr = nil
}

// OpenEdit starts an edit draft as a structural deep copy of the given
// entity, so field setters can never leak into the canonical record.
func (s *Session[D]) OpenEdit(seed D) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateOpen
	s.mode = ModeEdit
	s.draft = deepCopy(seed)
	s.lastErr = nil
}

// Update applies field mutations to the open draft.
func (s *Session[D]) Update(mutate func(*D)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateOpen:
	case StateSubmitting:
		return appErrors.ErrDraftBusy
	default:
		return appErrors.ErrDraftClosed
	}
	mutate(&s.draft)
	return nil
}

// Draft returns a copy of the current draft and whether one is open.
func (s *Session[D]) Draft() (D, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		var zero D
		return zero, false
	}
	return deepCopy(s.draft), true
}

// Cancel discards the draft with no side effects.
func (s *Session[D]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		// the in-flight write still resolves; only the dialog closes
		s.state = StateClosed
		return
	}
	var zero D
	s.state = StateClosed
	s.draft = zero
	s.lastErr = nil
}

// Validate runs struct-tag validation plus the session's cross-field rules.
// A validation failure means the write is never attempted.
func (s *Session[D]) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return appErrors.ErrDraftClosed
	}
	return s.check(&s.draft)
}

// Submit validates and hands the draft to the given write. Only one
// submission may be in flight for a session; a second Submit while the first
// is pending is rejected without issuing a request. On success the session
// closes; on failure it stays open with the error recorded.
func (s *Session[D]) Submit(ctx context.Context, write func(context.Context, D) error) error {
	s.mu.Lock()
	switch s.state {
	case StateOpen:
	case StateSubmitting:
		s.mu.Unlock()
		return appErrors.ErrDraftBusy
	default:
		s.mu.Unlock()
		return appErrors.ErrDraftClosed
	}
	if err := s.check(&s.draft); err != nil {
		s.lastErr = err
		s.mu.Unlock()
		return err
	}
	s.state = StateSubmitting
	draft := deepCopy(s.draft)
	s.mu.Unlock()

	err := write(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitting {
		// cancelled mid-flight; the dialog is already gone
		return err
	}
	if err != nil {
		s.state = StateOpen
		s.lastErr = err
		return err
	}
	var zero D
	s.state = StateClosed
	s.draft = zero
	s.lastErr = nil
	return nil
}

// State returns the lifecycle state.
func (s *Session[D]) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mode returns create/edit for an open session.
func (s *Session[D]) Mode() SessionMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Err returns the last validation or submit error.
func (s *Session[D]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session[D]) check(draft *D) error {
	if err := s.validate.Struct(draft); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft")
	}
	for _, rule := range s.rules {
		if err := rule(draft); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
	}
	return nil
}

// deepCopy clones through JSON, which covers every draft shape the screens
// use (flat structs, optional pointers, nested slices).
func deepCopy[D any](in D) D {
	raw, err := json.Marshal(in)
	if err != nil {
		return in
	}
	var out D
	if err := json.Unmarshal(raw, &out); err != nil {
		return in
	}
	return out
}
