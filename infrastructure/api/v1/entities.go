// Package v1 provides the v1 API routes.
package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/archmapio/archmap"
	"github.com/archmapio/archmap/application/service"
	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/relation"
	"github.com/archmapio/archmap/infrastructure/api/middleware"
)

// EntitiesRouter handles entity and relationship query endpoints.
type EntitiesRouter struct {
	client *archmap.Client
	logger *slog.Logger
}

// NewEntitiesRouter creates a new EntitiesRouter.
func NewEntitiesRouter(client *archmap.Client) *EntitiesRouter {
	return &EntitiesRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for entity endpoints.
func (r *EntitiesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Get("/{type}/{key}", r.Get)
	router.Get("/{type}/{key}/related", r.Related)

	return router
}

// List handles GET /api/v1/entities.
func (r *EntitiesRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var options []catalog.Option
	if t := req.URL.Query().Get("type"); t != "" {
		options = append(options, catalog.WithEntityType(catalog.EntityType(t)))
	}
	if s := req.URL.Query().Get("status"); s != "" {
		options = append(options, catalog.WithStatus(catalog.Status(s)))
	}
	if l := req.URL.Query().Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			middleware.WriteBadRequest(w, req, "limit must be a non-negative integer")
			return
		}
		options = append(options, catalog.WithLimit(limit))
	}
	if o := req.URL.Query().Get("offset"); o != "" {
		offset, err := strconv.Atoi(o)
		if err != nil || offset < 0 {
			middleware.WriteBadRequest(w, req, "offset must be a non-negative integer")
			return
		}
		options = append(options, catalog.WithOffset(offset))
	}
	options = append(options, catalog.WithOrderAsc("business_key"))

	entities, err := r.client.Entities.Find(ctx, options...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, entitiesToDTO(entities))
}

// Get handles GET /api/v1/entities/{type}/{key}.
func (r *EntitiesRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	entity, err := r.client.Entities.FindOne(ctx,
		catalog.WithEntityType(catalog.EntityType(chi.URLParam(req, "type"))),
		catalog.WithBusinessKey(catalog.NewBusinessKey(chi.URLParam(req, "key"))),
	)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, entityToDTO(entity))
}

// Related handles GET /api/v1/entities/{type}/{key}/related.
func (r *EntitiesRouter) Related(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	query := req.URL.Query()

	params := service.RelatedParams{
		EntityType:   catalog.EntityType(chi.URLParam(req, "type")),
		Key:          catalog.NewBusinessKey(chi.URLParam(req, "key")),
		JunctionType: relation.JunctionType(query.Get("junction_type")),
		Relation:     relation.RelationType(query.Get("relation")),
		Direction:    service.Direction(query.Get("direction")),
	}

	related, err := r.client.Queries.Related(ctx, params)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, relatedToDTO(related))
}
