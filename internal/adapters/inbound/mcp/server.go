package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/laundrydesk/laundrydesk/internal/application"
	"github.com/laundrydesk/laundrydesk/internal/domain"
)

// Deps are the services the MCP tools operate on. They are built once at
// the composition root and shared with the scheduler.
type Deps struct {
	Orders    *application.OrderStore
	Customers *application.CustomerBook
	Dashboard *application.DashboardService
	// Session gates the mutating tools. An inactive session leaves the
	// server read-only.
	Session domain.Session
}

// NewLaundryMCPServer creates an MCP server with all laundrydesk tools and
// resources registered.
func NewLaundryMCPServer(deps Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"laundrydesk",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, deps)
	registerResources(s, deps)

	return s
}
