// ABOUTME: MCP server setup for the dailylog tracker.
// ABOUTME: Wraps the MCP server around a Tracker so agents can log meals and workouts.
package mcp

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/dailylog/internal/logging"
	"github.com/harperreed/dailylog/internal/tracker"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with tracker access.
type Server struct {
	mcpServer *mcp.Server
	tracker   *tracker.Tracker
	log       *log.Logger
}

// NewServer creates a new MCP server over the given tracker.
func NewServer(tr *tracker.Tracker, logger *log.Logger) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "dailylog",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		tracker:   tr,
		log:       logging.OrDiscard(logger),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("serving mcp over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
