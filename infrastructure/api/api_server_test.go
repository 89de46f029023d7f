package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archmapio/archmap"
	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/relation"
	"github.com/archmapio/archmap/infrastructure/api"
)

// newTestHandler builds a handler backed by an in-memory client seeded with
// one capability, one application and a resolved junction between them.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	client, err := archmap.New(
		archmap.WithDatabaseURL("sqlite:///:memory:"),
		archmap.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	for _, seed := range []struct {
		entityType catalog.EntityType
		key        catalog.BusinessKey
		name       string
	}{
		{"capability", "CAP1", "Billing"},
		{"application", "APP1", "SAP"},
	} {
		entity, err := catalog.NewEntity(seed.entityType, seed.key, seed.name)
		require.NoError(t, err)
		_, _, err = client.Entities.Upsert(ctx, entity)
		require.NoError(t, err)
	}

	junction, err := relation.NewJunction("capability-application",
		"capability", "CAP1", "application", "APP1", "primary")
	require.NoError(t, err)
	_, _, err = client.Junctions.Upsert(ctx, junction)
	require.NoError(t, err)

	dangling, err := relation.NewJunction("capability-application",
		"capability", "CAP1", "application", "APP_MISSING", "primary")
	require.NoError(t, err)
	_, _, err = client.Junctions.Upsert(ctx, dangling)
	require.NoError(t, err)

	_, err = client.Resolver.ResolveAll(ctx)
	require.NoError(t, err)

	return api.NewAPIServer(client, "test").Handler()
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler(t)

	w := get(t, handler, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestListEntities(t *testing.T) {
	handler := newTestHandler(t)

	w := get(t, handler, "/api/v1/entities?type=capability")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var entities []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entities))
	require.Len(t, entities, 1)
	assert.Equal(t, "CAP1", entities[0]["key"])
	assert.Equal(t, "Billing", entities[0]["name"])
}

func TestListEntitiesBadLimit(t *testing.T) {
	handler := newTestHandler(t)

	w := get(t, handler, "/api/v1/entities?limit=banana")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEntity(t *testing.T) {
	handler := newTestHandler(t)

	w := get(t, handler, "/api/v1/entities/application/APP1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var entity map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entity))
	assert.Equal(t, "APP1", entity["key"])

	w = get(t, handler, "/api/v1/entities/application/NOPE")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRelatedEntities(t *testing.T) {
	handler := newTestHandler(t)

	w := get(t, handler, "/api/v1/entities/capability/CAP1/related")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var related []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &related))
	require.Len(t, related, 1)

	entity := related[0]["entity"].(map[string]any)
	assert.Equal(t, "APP1", entity["key"])
	assert.Equal(t, "outgoing", related[0]["direction"])

	junction := related[0]["junction"].(map[string]any)
	assert.Equal(t, "resolved", junction["state"])
}

func TestUnresolvedReferences(t *testing.T) {
	handler := newTestHandler(t)

	w := get(t, handler, "/api/v1/relations/unresolved")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var refs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refs))
	require.Len(t, refs, 1)
	assert.Equal(t, "to", refs[0]["side"])
	assert.Equal(t, "APP_MISSING", refs[0]["key"])
}

func TestListRuns(t *testing.T) {
	handler := newTestHandler(t)

	w := get(t, handler, "/api/v1/runs")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var runs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	// Seeding performed one resolve sweep.
	require.Len(t, runs, 1)
	assert.Equal(t, "resolve", runs[0]["kind"])
}
