package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/archmapio/archmap"
	"github.com/archmapio/archmap/domain/relation"
	"github.com/archmapio/archmap/infrastructure/api/middleware"
)

// RelationsRouter handles junction-level query endpoints.
type RelationsRouter struct {
	client *archmap.Client
	logger *slog.Logger
}

// NewRelationsRouter creates a new RelationsRouter.
func NewRelationsRouter(client *archmap.Client) *RelationsRouter {
	return &RelationsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for junction endpoints.
func (r *RelationsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/unresolved", r.Unresolved)
	router.Get("/tree/{junction_type}", r.Tree)

	return router
}

// Unresolved handles GET /api/v1/relations/unresolved.
func (r *RelationsRouter) Unresolved(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	junctionType := relation.JunctionType(req.URL.Query().Get("junction_type"))

	refs, err := r.client.Queries.Unresolved(ctx, junctionType)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, unresolvedToDTO(refs))
}

// Tree handles GET /api/v1/relations/tree/{junction_type}.
func (r *RelationsRouter) Tree(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	junctionType := relation.JunctionType(chi.URLParam(req, "junction_type"))

	nodes, err := r.client.Queries.Tree(ctx, junctionType)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, treeToDTO(nodes))
}
