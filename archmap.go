// Package archmap provides a library for importing and querying an
// enterprise-architecture catalog.
//
// Archmap ingests spreadsheet exports into flat entity collections keyed by
// human-assigned business keys, imports relationship sheets as junction
// records carrying those keys, resolves the keys to internal IDs after the
// fact, and answers relationship queries by joining in memory.
//
// Basic usage:
//
//	client, err := archmap.New(
//	    archmap.WithSQLite(".archmap/archmap.db"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Import a plan end to end
//	plan, err := mapping.LoadPlan("plan.yaml")
//	report, err := client.Pipeline.Run(ctx, service.PipelineParams{
//	    Plan: plan,
//	    File: "landscape.xlsx",
//	})
//
//	// Query relationships
//	related, err := client.Queries.Related(ctx, service.RelatedParams{
//	    EntityType: "capability",
//	    Key:        "CAP1",
//	})
package archmap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/archmapio/archmap/application/service"
	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/importing"
	"github.com/archmapio/archmap/domain/relation"
	"github.com/archmapio/archmap/infrastructure/persistence"
	"github.com/archmapio/archmap/infrastructure/spreadsheet"
	"github.com/archmapio/archmap/internal/database"
)

// ErrNoDatabase indicates New was called without a database option.
var ErrNoDatabase = errors.New("no database configured: use WithSQLite or WithPostgres")

// ErrClientClosed indicates the client was already closed.
var ErrClientClosed = errors.New("client is closed")

// Client is the main entry point for the archmap library.
//
// Access resources via struct fields:
//
//	client.Entities.Find(ctx, catalog.WithEntityType("application"))
//	client.Queries.Related(ctx, params)
//	client.Resolver.ResolveAll(ctx)
type Client struct {
	// Public resource fields (direct service access)
	Validator *service.Validator
	Importer  *service.Importer
	Resolver  *service.Resolver
	Queries   *service.Queries
	Pipeline  *service.Pipeline

	// Stores, exposed for direct reads
	Entities  catalog.EntityStore
	Junctions relation.JunctionStore
	Runs      importing.RunStore

	db     database.Database
	logger *slog.Logger
	closed atomic.Bool
}

// New creates a new Client with the given options. The schema is migrated on
// open.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.dbURL == "" {
		return nil, ErrNoDatabase
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, cfg.dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	entityStore := persistence.NewEntityStore(db)
	junctionStore := persistence.NewJunctionStore(db)
	runStore := persistence.NewRunStore(db)

	client := &Client{
		Entities:  entityStore,
		Junctions: junctionStore,
		Runs:      runStore,
		db:        db,
		logger:    logger,
	}

	client.Validator = service.NewValidator(entityStore, cfg.strictChoices, logger)
	client.Importer = service.NewImporter(entityStore, junctionStore, runStore, cfg.batchSize, logger)
	client.Resolver = service.NewResolver(entityStore, junctionStore, runStore, logger)
	client.Queries = service.NewQueries(entityStore, junctionStore, logger)
	client.Pipeline = service.NewPipeline(spreadsheet.FileReader{}, client.Validator, client.Importer, client.Resolver, logger)

	return client, nil
}

// Close releases the database connection.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	c.logger.Debug("archmap client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}
