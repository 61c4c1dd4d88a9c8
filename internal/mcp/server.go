// ABOUTME: MCP server setup for the care4u companion.
// ABOUTME: Wraps the MCP server around the root controller and a companion responder.
package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/care4u/internal/companion"
	"github.com/harperreed/care4u/internal/store"
)

// Server wraps the MCP server with controller access.
type Server struct {
	mcpServer *mcp.Server
	store     *store.Store
	responder companion.Responder
}

// NewServer creates a new MCP server over the given store.
// A nil responder falls back to the offline scripted companion.
func NewServer(st *store.Store, responder companion.Responder) (*Server, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if responder == nil {
		responder = companion.NewScripted(0)
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "care4u",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     st,
		responder: responder,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
