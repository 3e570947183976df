package mcp

import (
	"fmt"
	"os"

	"github.com/kiosk404/herald/pkg/utils/json"
)

const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// MCPConfig lists the external tool servers, in the mcp.json layout used by
// desktop MCP clients:
//
//	{
//	  "mcpServers": {
//	    "weather": {"transport": "sse", "url": "http://localhost:8931/sse"},
//	    "notes":   {"command": "npx", "args": ["-y", "notes-mcp"]}
//	  }
//	}
type MCPConfig struct {
	MCPServers map[string]*ServerConfig `json:"mcpServers"`
}

type ServerConfig struct {
	// Transport is "stdio" (default) or "sse".
	Transport string `json:"transport,omitempty"`

	// Command, Args and Env launch a stdio server. Env entries are KEY=VALUE.
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`
	Env     []string `json:"env,omitempty"`

	// URL is the SSE endpoint.
	URL string `json:"url,omitempty"`

	// ToolFilter restricts which remote tools are registered. Empty means all.
	ToolFilter []string `json:"toolFilter,omitempty"`
}

// LoadMCPConfig reads path. A missing file yields an empty config.
func LoadMCPConfig(path string) (*MCPConfig, error) {
	if path == "" {
		return NewMCPConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewMCPConfig(), nil
		}
		return nil, fmt.Errorf("failed to read MCP config file %q: %w", path, err)
	}

	cfg := &MCPConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse MCP config file %q: %w", path, err)
	}
	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]*ServerConfig)
	}
	return cfg, nil
}

func NewMCPConfig() *MCPConfig {
	return &MCPConfig{
		MCPServers: make(map[string]*ServerConfig),
	}
}

func (c *MCPConfig) Validate() []error {
	var errs []error
	for name, srv := range c.MCPServers {
		if srv.Transport == "" {
			srv.Transport = TransportStdio
		}
		switch srv.Transport {
		case TransportStdio:
			if srv.Command == "" {
				errs = append(errs, fmt.Errorf("mcpServers.%s: command is required for stdio transport", name))
			}
		case TransportSSE:
			if srv.URL == "" {
				errs = append(errs, fmt.Errorf("mcpServers.%s: url is required for sse transport", name))
			}
		default:
			errs = append(errs, fmt.Errorf("mcpServers.%s: unsupported transport %q", name, srv.Transport))
		}
	}
	return errs
}
