package options

import (
	"github.com/spf13/pflag"
)

// MCPOptions holds options for the MCP (Model Context Protocol) subsystem.
// MCP uses a standalone configuration file in the Claude Desktop format.
type MCPOptions struct {
	// ConfigFile is the path to the MCP configuration file. A missing file
	// means no external tools.
	ConfigFile string `json:"config-file" mapstructure:"config-file"`
}

func NewMCPOptions() *MCPOptions {
	return &MCPOptions{
		ConfigFile: "conf/mcp.json",
	}
}

func (o *MCPOptions) Validate() []error {
	return nil
}

func (o *MCPOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "mcp.config-file", o.ConfigFile, "Path to the MCP configuration file.")
}
