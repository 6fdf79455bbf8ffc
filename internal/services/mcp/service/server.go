package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/userdirectory/internal/services/mcp/domain"
	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName = "userdirectory"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Config defines startup inputs for the MCP server.
type Config struct {
	APIBaseURL string
	APIKey     string
	APITimeout time.Duration
	// Token preloads a bearer token so directory_login is optional.
	Token  string
	Logger *log.Logger
}

// Server hosts the MCP tool surface over one transport.
type Server struct {
	mcpServer *mcp.Server
	workspace *domain.Workspace
}

type toolRegistration struct {
	name     string
	register func(*mcp.Server)
}

func toolsFor(client domain.DirectoryClient, ws *domain.Workspace, logger *log.Logger) []toolRegistration {
	return []toolRegistration{
		{name: "directory_login", register: func(s *mcp.Server) {
			mcp.AddTool(s, domain.LoginTool(), domain.LoginHandler(client, ws, logger))
		}},
		{name: "directory_list_users", register: func(s *mcp.Server) {
			mcp.AddTool(s, domain.ListUsersTool(), domain.ListUsersHandler(client, ws, logger))
		}},
		{name: "directory_update_user", register: func(s *mcp.Server) {
			mcp.AddTool(s, domain.UpdateUserTool(), domain.UpdateUserHandler(client, ws, logger))
		}},
		{name: "directory_delete_user", register: func(s *mcp.Server) {
			mcp.AddTool(s, domain.DeleteUserTool(), domain.DeleteUserHandler(client, ws, logger))
		}},
	}
}

// newServer builds a Server whose tools call client.
func newServer(client domain.DirectoryClient, token directoryapi.Token, logger *log.Logger) (*Server, error) {
	if client == nil {
		return nil, errors.New("directory client is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	ws := domain.NewWorkspace(token)
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	for _, tool := range toolsFor(client, ws, logger) {
		tool.register(mcpServer)
	}
	return &Server{mcpServer: mcpServer, workspace: ws}, nil
}

// New builds a Server backed by the remote directory API.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, errors.New("api base url is required")
	}
	client, err := directoryapi.New(cfg.APIBaseURL,
		directoryapi.WithTimeout(cfg.APITimeout),
		directoryapi.WithAPIKey(cfg.APIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("build directory client: %w", err)
	}
	return newServer(client, directoryapi.Token(strings.TrimSpace(cfg.Token)), cfg.Logger)
}

// Run builds a Server from cfg and serves it on stdio until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
