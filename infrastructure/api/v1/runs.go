package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/archmapio/archmap"
	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/infrastructure/api/middleware"
)

// RunsRouter handles pipeline run endpoints.
type RunsRouter struct {
	client *archmap.Client
	logger *slog.Logger
}

// NewRunsRouter creates a new RunsRouter.
func NewRunsRouter(client *archmap.Client) *RunsRouter {
	return &RunsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for run endpoints.
func (r *RunsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)

	return router
}

// List handles GET /api/v1/runs.
func (r *RunsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	runs, err := r.client.Runs.Find(ctx, catalog.WithOrderDesc("started_at"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	out := make([]RunDTO, len(runs))
	for i, run := range runs {
		out[i] = runToDTO(run)
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}
