package mcp

import (
	"context"
	"fmt"
	"slices"
	"sync"

	mcpTool "github.com/cloudwego/eino-ext/components/tool/mcp"
	"github.com/cloudwego/eino/components/tool"
	"github.com/kiosk404/herald/pkg/logger"
	"github.com/kiosk404/herald/pkg/version"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

type ServerStatus int

const (
	ServerStatusDisconnected ServerStatus = iota
	ServerStatusConnecting
	ServerStatusConnected
	ServerStatusError
)

func (s ServerStatus) String() string {
	switch s {
	case ServerStatusDisconnected:
		return "Disconnected"
	case ServerStatusConnecting:
		return "Connecting"
	case ServerStatusConnected:
		return "Connected"
	case ServerStatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// RemoteTool pairs the server-side declaration of a tool with its invokable
// Eino wrapper.
type RemoteTool struct {
	Server string
	Spec   mcp.Tool
	Impl   tool.InvokableTool
}

// Server is one connection to an MCP server.
type Server struct {
	name   string
	config *ServerConfig

	mu     sync.RWMutex
	client client.MCPClient
	tools  []RemoteTool
	status ServerStatus
	err    error
}

func NewServer(name string, cfg *ServerConfig) *Server {
	return &Server{
		name:   name,
		config: cfg,
		status: ServerStatusDisconnected,
	}
}

func (s *Server) Name() string {
	return s.name
}

func (s *Server) Status() ServerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the last connection error, if any.
func (s *Server) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Server) Tools() []RemoteTool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tools)
}

// Connect performs the MCP handshake and discovers the server's tools.
func (s *Server) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = ServerStatusConnecting
	s.err = nil

	cli, err := s.createClient(ctx)
	if err != nil {
		return s.fail(fmt.Errorf("[MCP] server %q: failed to create client: %w", s.name, err))
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "herald",
		Version: version.Get().GitVersion,
	}
	if _, err := cli.Initialize(ctx, initReq); err != nil {
		_ = cli.Close()
		return s.fail(fmt.Errorf("[MCP] server %q: failed to initialize: %w", s.name, err))
	}

	listed, err := cli.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		_ = cli.Close()
		return s.fail(fmt.Errorf("[MCP] server %q: failed to list tools: %w", s.name, err))
	}
	wrapped, err := mcpTool.GetTools(ctx, &mcpTool.Config{
		Cli:          cli,
		ToolNameList: s.config.ToolFilter,
	})
	if err != nil {
		_ = cli.Close()
		return s.fail(fmt.Errorf("[MCP] server %q: failed to get tools: %w", s.name, err))
	}

	s.client = cli
	s.tools = pairTools(ctx, s.name, listed.Tools, wrapped)
	s.status = ServerStatusConnected
	logger.Info("[MCP] server %q connected with %d tools", s.name, len(s.tools))
	return nil
}

func (s *Server) fail(err error) error {
	s.status = ServerStatusError
	s.err = err
	return err
}

func (s *Server) Reconnect(ctx context.Context) error {
	s.Close()
	return s.Connect(ctx)
}

func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		if err := s.client.Close(); err != nil {
			logger.Warn("[MCP] server %q: failed to close client: %v", s.name, err)
		}
		s.client = nil
	}
	s.tools = nil
	s.status = ServerStatusDisconnected
	s.err = nil
}

// createClient must be called with s.mu held.
func (s *Server) createClient(ctx context.Context) (client.MCPClient, error) {
	switch s.config.Transport {
	case TransportStdio, "":
		return client.NewStdioMCPClient(s.config.Command, s.config.Env, s.config.Args...)
	case TransportSSE:
		cli, err := client.NewSSEMCPClient(s.config.URL)
		if err != nil {
			return nil, err
		}
		if err := cli.Start(ctx); err != nil {
			return nil, err
		}
		return cli, nil
	default:
		return nil, fmt.Errorf("unknown transport: %s", s.config.Transport)
	}
}

// pairTools matches the Eino wrappers to their declarations by name. Tools
// that are not invokable are dropped.
func pairTools(ctx context.Context, server string, specs []mcp.Tool, wrapped []tool.BaseTool) []RemoteTool {
	byName := make(map[string]mcp.Tool, len(specs))
	for _, spec := range specs {
		byName[spec.Name] = spec
	}

	out := make([]RemoteTool, 0, len(wrapped))
	for _, bt := range wrapped {
		inv, ok := bt.(tool.InvokableTool)
		if !ok {
			continue
		}
		info, err := bt.Info(ctx)
		if err != nil || info == nil {
			logger.Warn("[MCP] server %q: skipping tool without info: %v", server, err)
			continue
		}
		spec, ok := byName[info.Name]
		if !ok {
			spec = mcp.Tool{Name: info.Name, Description: info.Desc}
		}
		out = append(out, RemoteTool{Server: server, Spec: spec, Impl: inv})
	}
	return out
}
