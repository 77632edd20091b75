package datasync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lusoedu/sge-console/internal/models"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

func seeded(t *testing.T) *Collection[models.Student] {
	t.Helper()
	col := NewCollection(studentID)
	gen := col.Begin()
	require.True(t, col.Apply(gen, []models.Student{
		{ID: 1, Name: "Ana"},
		{ID: 2, Name: "Bruno"},
	}, nil))
	return col
}

func TestControllerDeleteSuccessRemovesExactlyOne(t *testing.T) {
	col := seeded(t)
	ctrl := NewController(col, PatchLocal, nil)

	err := ctrl.Delete(context.Background(), 2, func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	rows := col.Snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].Name)
}

func TestControllerDeleteFailureLeavesListUntouched(t *testing.T) {
	col := seeded(t)
	ctrl := NewController(col, PatchLocal, nil)

	detail := appErrors.Clone(appErrors.ErrUpstreamRejected, "dependent records exist")
	err := ctrl.Delete(context.Background(), 2, func(ctx context.Context) error { return detail })
	require.Error(t, err)
	assert.Equal(t, "dependent records exist", appErrors.FromError(err).Message)
	assert.Equal(t, 2, col.Len())
}

func TestControllerUpdateAppliesServerEchoNotClientGuess(t *testing.T) {
	col := seeded(t)
	ctrl := NewController(col, PatchLocal, nil)

	echo := models.Student{ID: 1, Name: "Ana", ClassLabel: "10º A"} // server-derived field
	got, err := ctrl.Update(context.Background(), func(ctx context.Context) (models.Student, error) {
		return echo, nil
	})
	require.NoError(t, err)
	assert.Equal(t, echo, got)

	rows := col.Snapshot()
	assert.Equal(t, "10º A", rows[0].ClassLabel)
}

func TestControllerRefetchPolicyResyncsAfterWrite(t *testing.T) {
	col := seeded(t)
	refetched := false
	refetch := func(ctx context.Context) error {
		refetched = true
		gen := col.Begin()
		col.Apply(gen, []models.Student{{ID: 1, Name: "Ana"}}, nil)
		return nil
	}
	ctrl := NewController(col, Refetch, refetch)

	err := ctrl.Delete(context.Background(), 2, func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	assert.True(t, refetched)
	assert.Equal(t, 1, col.Len())
}

func TestControllerCreateAppendsEcho(t *testing.T) {
	col := seeded(t)
	ctrl := NewController(col, PatchLocal, nil)

	_, err := ctrl.Create(context.Background(), func(ctx context.Context) (models.Student, error) {
		return models.Student{ID: 3, Name: "Carla"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, col.Len())
}

func TestControllerUpdateMissingTargetFallsBackToRefetch(t *testing.T) {
	col := seeded(t)
	refetched := false
	ctrl := NewController(col, PatchLocal, func(ctx context.Context) error {
		refetched = true
		return nil
	})

	_, err := ctrl.Update(context.Background(), func(ctx context.Context) (models.Student, error) {
		return models.Student{ID: 99, Name: "Ghost"}, nil
	})
	require.NoError(t, err)
	assert.True(t, refetched)
}
