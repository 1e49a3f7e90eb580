package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/travel-assistant/internal/assistant"
	"github.com/ziadkadry99/travel-assistant/internal/travel"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Chatter runs one conversational turn.
type Chatter interface {
	HandleMessage(ctx context.Context, req assistant.Request) (*assistant.Response, error)
}

// PackageSearcher lists travel packages.
type PackageSearcher interface {
	Packages(ctx context.Context, search string, limit, offset int) ([]map[string]any, error)
}

// Server wraps an MCP server that exposes the travel assistant as tools.
type Server struct {
	chat     Chatter
	travel   travel.Service
	packages PackageSearcher
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. packages may be nil, in which case
// search_packages is not offered.
func NewServer(chat Chatter, svc travel.Service, packages PackageSearcher) *Server {
	s := &Server{
		chat:     chat,
		travel:   svc,
		packages: packages,
	}

	s.mcp = server.NewMCPServer(
		"travel-assistant",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(chatTool, s.handleChat)
	s.mcp.AddTool(searchFlightsTool, s.handleSearchFlights)
	s.mcp.AddTool(searchHotelsTool, s.handleSearchHotels)
	s.mcp.AddTool(createBookingTool, s.handleCreateBooking)
	if s.packages != nil {
		s.mcp.AddTool(searchPackagesTool, s.handleSearchPackages)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
