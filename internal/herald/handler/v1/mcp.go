package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/kiosk404/herald/internal/herald/service/mcp"
	"github.com/kiosk404/herald/internal/pkg/core"
	"github.com/kiosk404/herald/pkg/errorx"
)

// MCPServerResponse describes one configured MCP server.
type MCPServerResponse struct {
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Tools  []string `json:"tools"`
}

// MCPControl exposes MCP server state and reconnection.
type MCPControl interface {
	ServerNames() []string
	ServerStatus(name string) mcp.ServerStatus
	RemoteTools() []mcp.RemoteTool
	Reconnect(ctx context.Context, name string) (int, error)
}

// MCPHandler reports and reconnects MCP servers.
type MCPHandler struct {
	manager MCPControl
}

func NewMCPHandler(manager MCPControl) *MCPHandler {
	return &MCPHandler{manager: manager}
}

// List handles GET /v1/mcp/servers.
func (h *MCPHandler) List(c *gin.Context) {
	tools := map[string][]string{}
	for _, rt := range h.manager.RemoteTools() {
		tools[rt.Server] = append(tools[rt.Server], rt.Spec.Name)
	}

	names := h.manager.ServerNames()
	out := make([]MCPServerResponse, 0, len(names))
	for _, name := range names {
		t := tools[name]
		if t == nil {
			t = []string{}
		}
		out = append(out, MCPServerResponse{
			Name:   name,
			Status: h.manager.ServerStatus(name).String(),
			Tools:  t,
		})
	}
	core.WriteResponse(c, nil, okData(out))
}

// Reconnect handles POST /v1/mcp/servers/:name/reconnect.
func (h *MCPHandler) Reconnect(c *gin.Context) {
	name := c.Param("name")
	n, err := h.manager.Reconnect(c.Request.Context(), name)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrMCPReconnect, "reconnect mcp server %q", name), nil)
		return
	}
	core.WriteResponse(c, nil, okData(gin.H{
		"name":   name,
		"status": h.manager.ServerStatus(name).String(),
		"tools":  n,
	}))
}
