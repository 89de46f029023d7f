package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/importing"
)

func TestRunStoreSaveTwice(t *testing.T) {
	store := NewRunStore(newTestDB(t))
	ctx := context.Background()

	run := importing.NewRun(importing.RunImportEntities, "capability")
	_, err := store.Save(ctx, run)
	require.NoError(t, err)

	finished, err := store.Save(ctx, run.Finish(5, 2, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, run.ID(), finished.ID())
	assert.Equal(t, 5, finished.Created())
	assert.False(t, finished.FinishedAt().IsZero())

	runs, err := store.Find(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, importing.RunImportEntities, runs[0].Kind())
}

func TestRunStoreFindOrdered(t *testing.T) {
	store := NewRunStore(newTestDB(t))
	ctx := context.Background()

	_, err := store.Save(ctx, importing.NewRun(importing.RunImportEntities, "capability"))
	require.NoError(t, err)
	_, err = store.Save(ctx, importing.NewRun(importing.RunResolve, ""))
	require.NoError(t, err)

	runs, err := store.Find(ctx, catalog.WithCondition("kind", string(importing.RunResolve)))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, importing.RunResolve, runs[0].Kind())
}
