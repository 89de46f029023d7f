package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"

	"github.com/archmapio/archmap"
	apimiddleware "github.com/archmapio/archmap/infrastructure/api/middleware"
	v1 "github.com/archmapio/archmap/infrastructure/api/v1"
	mcpinternal "github.com/archmapio/archmap/internal/mcp"
)

// APIServer provides an HTTP API backed by an archmap Client. All endpoints
// are read-only: imports go through the CLI or the library, not the wire.
type APIServer struct {
	client  *archmap.Client
	version string
	server  *Server
	logger  *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given archmap Client.
func NewAPIServer(client *archmap.Client, version string) *APIServer {
	return &APIServer{
		client:  client,
		version: version,
		logger:  client.Logger(),
	}
}

// mountRoutes wires up all routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	entitiesRouter := v1.NewEntitiesRouter(c)
	relationsRouter := v1.NewRelationsRouter(c)
	runsRouter := v1.NewRunsRouter(c)

	router.Use(apimiddleware.Logging(a.logger))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		apimiddleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": a.version,
		})
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		r.Mount("/entities", entitiesRouter.Routes())
		r.Mount("/relations", relationsRouter.Routes())
		r.Mount("/runs", runsRouter.Routes())
	})

	// MCP endpoint — no timeout middleware. MCP uses streaming responses,
	// which are incompatible with chi's Timeout wrapping the ResponseWriter.
	mcpSrv := mcpinternal.NewServer(c.Queries, a.version, a.logger)
	router.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv.MCPServer()))
}

// ListenAndServe starts the HTTP server on the given address and blocks.
func (a *APIServer) ListenAndServe(addr string) error {
	srv := NewServer(addr, a.logger)
	a.server = &srv

	a.mountRoutes(srv.Router())

	return srv.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the full route tree as an http.Handler, for tests and
// custom servers.
func (a *APIServer) Handler() http.Handler {
	router := chi.NewRouter()
	a.mountRoutes(router)
	return router
}
