package datasync

import "context"

// Policy decides how a successful write is reflected in the canonical list.
type Policy int

const (
	// PatchLocal applies the server echo in place: replace-by-id for
	// updates, append for creates, remove-by-id for deletes.
	PatchLocal Policy = iota
	// Refetch re-runs the loader after the write. Mandatory whenever the
	// written entity participates in a server-computed aggregate, where a
	// local patch would drift from derived fields.
	Refetch
)

// Controller issues exactly one write request per call and keeps the
// canonical list consistent afterwards. On failure the list is untouched.
type Controller[T any] struct {
	col     *Collection[T]
	policy  Policy
	refetch func(context.Context) error
}

// NewController binds a write controller to a collection. refetch is the
// loader re-run used by the Refetch policy (and as fallback when a patch
// target is missing).
func NewController[T any](col *Collection[T], policy Policy, refetch func(context.Context) error) *Controller[T] {
	return &Controller[T]{col: col, policy: policy, refetch: refetch}
}

// Create sends the create request and appends the server echo (or refetches).
// The echoed record, not the client's draft, is what lands in the list.
func (c *Controller[T]) Create(ctx context.Context, send func(context.Context) (T, error)) (T, error) {
	echo, err := send(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if c.policy == Refetch {
		return echo, c.sync(ctx)
	}
	c.col.Append(echo)
	return echo, nil
}

// Update sends the update request and replaces the matching record.
func (c *Controller[T]) Update(ctx context.Context, send func(context.Context) (T, error)) (T, error) {
	echo, err := send(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if c.policy == Refetch {
		return echo, c.sync(ctx)
	}
	if !c.col.ReplaceByID(echo) {
		// record no longer present locally; resync rather than guess
		return echo, c.sync(ctx)
	}
	return echo, nil
}

// Delete sends the delete request and removes the record by id.
func (c *Controller[T]) Delete(ctx context.Context, id int, send func(context.Context) error) error {
	if err := send(ctx); err != nil {
		return err
	}
	if c.policy == Refetch {
		return c.sync(ctx)
	}
	c.col.RemoveByID(id)
	return nil
}

func (c *Controller[T]) sync(ctx context.Context) error {
	if c.refetch == nil {
		return nil
	}
	return c.refetch(ctx)
}
