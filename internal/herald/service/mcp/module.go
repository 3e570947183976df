package mcp

import (
	"context"

	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
	"github.com/kiosk404/herald/pkg/logger"
)

type Config struct {
	// ConfigFile is an mcp.json path; ignored when MCPConfig is set.
	ConfigFile string
	MCPConfig  *MCPConfig
}

type CompletedConfig struct {
	*Config
}

func (c *Config) Complete() CompletedConfig {
	if c.MCPConfig == nil {
		cfg, err := LoadMCPConfig(c.ConfigFile)
		if err != nil {
			logger.Warn("[MCP] %v, continuing without external tools", err)
			cfg = NewMCPConfig()
		}
		c.MCPConfig = cfg
	}
	for _, srv := range c.MCPConfig.MCPServers {
		if srv.Transport == "" {
			srv.Transport = TransportStdio
		}
	}
	return CompletedConfig{c}
}

// Module embeds the Manager; Reconnect and Close are its own.
type Module struct {
	Manager
	registry *service.Registry
}

// New connects to the configured servers and registers their tools. A
// server that fails to connect only costs its own tools.
func (c CompletedConfig) New(ctx context.Context, registry *service.Registry) (*Module, error) {
	mgr := newManager(c.MCPConfig)
	if err := mgr.Initialize(ctx); err != nil {
		logger.Warn("[MCP] initialization had error: %v", err)
	}
	if registry != nil {
		Register(registry, mgr.RemoteTools())
	}
	logger.Info("[MCP] module initialized (%d servers configured)", len(c.MCPConfig.MCPServers))
	return &Module{Manager: mgr, registry: registry}, nil
}

// Reconnect reconnects one server and registers its tools again. It returns
// the number of tools registered.
func (m *Module) Reconnect(ctx context.Context, serverName string) (int, error) {
	if err := m.Manager.Reconnect(ctx, serverName); err != nil {
		return 0, err
	}
	if m.registry == nil {
		return 0, nil
	}
	var remote []RemoteTool
	for _, rt := range m.Manager.RemoteTools() {
		if rt.Server == serverName {
			remote = append(remote, rt)
		}
	}
	return Register(m.registry, remote), nil
}

func (m *Module) Close() error {
	if m.Manager != nil {
		return m.Manager.Close()
	}
	return nil
}
