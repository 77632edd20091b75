package datasync

import "context"

// Loader ties a remote fetch to a collection under the generation guard.
// Every load reserves a generation before the request goes out, so whichever
// load was issued last wins regardless of response arrival order.
type Loader[T any] struct {
	col   *Collection[T]
	fetch func(context.Context) ([]T, error)
	guard func() error
}

// NewLoader builds a loader. guard, when set, blocks the fetch before any
// network I/O (used for the credential-availability check); its error is
// recorded as the collection's error state.
func NewLoader[T any](col *Collection[T], fetch func(context.Context) ([]T, error), guard func() error) *Loader[T] {
	return &Loader[T]{col: col, fetch: fetch, guard: guard}
}

// Load performs one fetch cycle. No retry is attempted on failure; the user
// re-triggers through a filter change or the explicit refresh affordance.
func (l *Loader[T]) Load(ctx context.Context) error {
	gen := l.col.Begin()
	if l.guard != nil {
		if err := l.guard(); err != nil {
			l.col.Apply(gen, nil, err)
			return err
		}
	}
	items, err := l.fetch(ctx)
	l.col.Apply(gen, items, err)
	return err
}

// Collection exposes the loader's backing canonical list.
func (l *Loader[T]) Collection() *Collection[T] { return l.col }
