// Package service hosts the MCP server for the research tracker.
package service

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/lorekeeper/internal/research/matcher"
	"github.com/louisbranch/lorekeeper/internal/research/tracker"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Lorekeeper MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server hosts the MCP server over the research tracker.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server wired to the tracker and matcher.
func New(svc *tracker.Service, m *matcher.Matcher) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("tracker service is required")
	}
	if m == nil {
		return nil, fmt.Errorf("check matcher is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	registerTrackerTools(mcpServer, svc)
	registerCheckTools(mcpServer, m)
	registerTrackerResources(mcpServer, svc)

	return &Server{mcpServer: mcpServer}, nil
}

// Serve runs the MCP server on stdio until the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
