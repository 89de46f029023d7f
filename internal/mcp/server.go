// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/archmapio/archmap/application/service"
	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/relation"
)

// CatalogQueries provides the relationship queries exposed as MCP tools.
type CatalogQueries interface {
	Related(ctx context.Context, params service.RelatedParams) ([]service.RelatedEntity, error)
	Unresolved(ctx context.Context, junctionType relation.JunctionType) ([]service.UnresolvedReference, error)
}

// Server wraps the MCP server with archmap-specific tools.
type Server struct {
	mcpServer *server.MCPServer
	queries   CatalogQueries
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(queries CatalogQueries, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		queries: queries,
		logger:  logger,
	}

	mcpServer := server.NewMCPServer(
		"archmap",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

// registerTools registers all archmap tools with the MCP server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	relatedTool := mcp.NewTool("related_entities",
		mcp.WithDescription("Find the entities related to one catalog entity through junction records, joined by business key"),
		mcp.WithString("entity_type",
			mcp.Required(),
			mcp.Description("The entity collection, e.g. \"capability\" or \"application\""),
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("The business key of the entity"),
		),
		mcp.WithString("junction_type",
			mcp.Description("Restrict to one junction collection"),
		),
		mcp.WithString("relation",
			mcp.Description("Restrict to one relationship classification, e.g. \"primary\""),
		),
	)
	mcpServer.AddTool(relatedTool, s.handleRelated)

	unresolvedTool := mcp.NewTool("unresolved_references",
		mcp.WithDescription("List junction records whose business keys did not resolve to any stored entity"),
		mcp.WithString("junction_type",
			mcp.Description("Restrict to one junction collection"),
		),
	)
	mcpServer.AddTool(unresolvedTool, s.handleUnresolved)
}

// handleRelated handles the related_entities tool invocation.
func (s *Server) handleRelated(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entityType, err := request.RequireString("entity_type")
	if err != nil {
		return mcp.NewToolResultError("entity_type is required"), nil
	}
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil
	}

	params := service.RelatedParams{
		EntityType:   catalog.EntityType(entityType),
		Key:          catalog.NewBusinessKey(key),
		JunctionType: relation.JunctionType(request.GetString("junction_type", "")),
		Relation:     relation.RelationType(request.GetString("relation", "")),
	}

	related, err := s.queries.Related(ctx, params)
	if err != nil {
		s.logger.Error("related query failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("related query failed: %v", err)), nil
	}

	type relatedResult struct {
		Type      string `json:"type"`
		Key       string `json:"key"`
		Name      string `json:"name"`
		Relation  string `json:"relation,omitempty"`
		Junction  string `json:"junction_type"`
		Direction string `json:"direction"`
	}

	results := make([]relatedResult, len(related))
	for i, r := range related {
		results[i] = relatedResult{
			Type:      r.Entity.Type().String(),
			Key:       r.Entity.Key().String(),
			Name:      r.Entity.Name(),
			Relation:  r.Junction.Relation().String(),
			Junction:  r.Junction.Type().String(),
			Direction: string(r.Direction),
		}
	}

	jsonBytes, err := json.Marshal(results)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleUnresolved handles the unresolved_references tool invocation.
func (s *Server) handleUnresolved(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	junctionType := relation.JunctionType(request.GetString("junction_type", ""))

	refs, err := s.queries.Unresolved(ctx, junctionType)
	if err != nil {
		s.logger.Error("unresolved query failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("unresolved query failed: %v", err)), nil
	}

	type unresolvedResult struct {
		JunctionID int64  `json:"junction_id"`
		Side       string `json:"side"`
		Collection string `json:"collection"`
		Key        string `json:"key"`
	}

	results := make([]unresolvedResult, len(refs))
	for i, ref := range refs {
		results[i] = unresolvedResult{
			JunctionID: ref.JunctionID.Int64(),
			Side:       string(ref.Side),
			Collection: ref.Collection.String(),
			Key:        ref.Key.String(),
		}
	}

	jsonBytes, err := json.Marshal(results)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MCPServer returns the underlying MCP server for HTTP mounting.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
