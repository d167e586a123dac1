// Package mcp exposes layout verification, splitting and restoring as MCP
// tools over stdio.
package mcp

import (
	"context"
	"strings"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xscreensplit/internal/config"
	"github.com/1broseidon/xscreensplit/internal/splitter"
)

const (
	ServerName    = "xscreensplit"
	ServerVersion = "0.1.0"
)

// Server is the MCP server. Tool calls that touch the display are serialised.
type Server struct {
	mcpServer      *mcpsdk.Server
	store          *config.Store
	backend        splitter.Backend
	splitter       *splitter.Splitter
	defaultProfile string

	mu sync.Mutex
}

// NewServer creates a server over a profile store and a display backend.
func NewServer(store *config.Store, backend splitter.Backend, opts []splitter.Option, defaultProfile string) *Server {
	if strings.TrimSpace(defaultProfile) == "" {
		defaultProfile = config.DefaultProfile
	}
	s := &Server{
		store:          store,
		backend:        backend,
		splitter:       splitter.New(backend, opts...),
		defaultProfile: defaultProfile,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_profiles",
		Description: "List the stored layout profiles.",
	}, s.handleListProfiles)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "verify_profile",
		Description: "Check that every level of a layout profile has child widths summing to 100. Returns the path of the first failing node.",
	}, s.handleVerifyProfile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "plan_split",
		Description: "Compute the virtual monitors a profile would create on the current primary display without applying them.",
	}, s.handlePlanSplit)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "split_display",
		Description: "Split the primary display into virtual monitors using a layout profile. Failed monitors are reported individually.",
	}, s.handleSplitDisplay)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_display",
		Description: "Remove every generated virtual monitor, restoring the primary display.",
	}, s.handleRestoreDisplay)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List active monitors as xrandr reports them, flagging primary and generated virtual monitors.",
	}, s.handleListMonitors)
}

func (s *Server) profileName(in ProfileInput) string {
	if name := strings.TrimSpace(in.Profile); name != "" {
		return name
	}
	return s.defaultProfile
}
