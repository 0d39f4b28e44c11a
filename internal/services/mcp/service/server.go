// Package service hosts the MCP server exposing admin tools over stdio.
//
// The tools mirror the dashboard: reading and updating a shop's widget
// settings and summarizing its analytics. They operate directly on admin
// storage, which lets operators and assistants script the same actions the
// dashboard offers.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/wazaphq/wazap/internal/services/admin/storage"
)

const (
	serverName = "wazap-admin"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server hosts the MCP tool surface over admin storage.
type Server struct {
	mcpServer *mcp.Server
	store     storage.Store
}

// NewServer creates an MCP server with all admin tools registered.
func NewServer(store storage.Store) (*Server, error) {
	if store == nil {
		return nil, errors.New("storage is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "settings_get",
		Description: "Read a shop's widget settings.",
	}, SettingsGetHandler(store))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "settings_set",
		Description: "Update a shop's widget settings. Omitted fields keep their current value.",
	}, SettingsSetHandler(store))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "analytics_summary",
		Description: "Summarize a shop's widget analytics.",
	}, AnalyticsSummaryHandler(store))

	return &Server{mcpServer: mcpServer, store: store}, nil
}

// Serve runs the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	return err
}

// Close releases the storage handle held by the server.
func (s *Server) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}
