// Package service wires the MCP transport to the encounter composer.
//
// It is the transport adapter layer: the package knows how to run MCP over
// stdio and delegates business meaning to the handlers in the domain package.
package service

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	composersvc "github.com/louisbranch/encounterforge/internal/composer/service"
	"github.com/louisbranch/encounterforge/internal/services/mcp/domain"
	"github.com/louisbranch/encounterforge/internal/storage"
)

const (
	serverName    = "encounterforge"
	serverVersion = "0.1.0"
)

// Server hosts the MCP server over stdio.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server exposing the composer and bestiary
// tools. Both dependencies are required.
func New(composer *composersvc.Composer, bestiary storage.BestiaryStore) (*Server, error) {
	if composer == nil {
		return nil, fmt.Errorf("composer is required")
	}
	if bestiary == nil {
		return nil, fmt.Errorf("bestiary store is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, domain.ComposeEncounterTool(), domain.ComposeEncounterHandler(composer))
	mcp.AddTool(mcpServer, domain.DeriveBudgetTool(), domain.DeriveBudgetHandler())
	mcp.AddTool(mcpServer, domain.ListMonstersTool(), domain.ListMonstersHandler(bestiary))

	return &Server{mcpServer: mcpServer}, nil
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return s.mcpServer.Run(ctx, transport)
}
