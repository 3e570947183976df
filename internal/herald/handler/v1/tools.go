package v1

import (
	"strings"

	"github.com/gin-gonic/gin"
	toolEntity "github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
	"github.com/kiosk404/herald/internal/pkg/core"
	"github.com/kiosk404/herald/pkg/errorx"
)

// ToolCatalog is the discovery side of the tool registry.
type ToolCatalog interface {
	GetAllMetadata() []*toolEntity.ToolMetadata
	GetMetadata(name string) (*toolEntity.ToolMetadata, bool)
	GetByCategory(category toolEntity.Category) []*toolEntity.ToolMetadata
	Search(text string) []*toolEntity.ToolMetadata
}

var _ ToolCatalog = (*service.Registry)(nil)

// ToolHandler serves the tool discovery endpoints.
type ToolHandler struct {
	catalog ToolCatalog
}

func NewToolHandler(catalog ToolCatalog) *ToolHandler {
	return &ToolHandler{catalog: catalog}
}

type toolList struct {
	Tools      []*toolEntity.ToolMetadata `json:"tools"`
	Count      int                        `json:"count"`
	Categories []toolEntity.Category      `json:"categories,omitempty"`
}

func list(tools []*toolEntity.ToolMetadata) toolList {
	if tools == nil {
		tools = []*toolEntity.ToolMetadata{}
	}
	return toolList{Tools: tools, Count: len(tools)}
}

// List handles GET /v1/tools.
func (h *ToolHandler) List(c *gin.Context) {
	out := list(h.catalog.GetAllMetadata())
	seen := map[toolEntity.Category]bool{}
	for _, m := range out.Tools {
		if !seen[m.Category] {
			seen[m.Category] = true
			out.Categories = append(out.Categories, m.Category)
		}
	}
	core.WriteResponse(c, nil, okData(out))
}

// Get handles GET /v1/tools/:name.
func (h *ToolHandler) Get(c *gin.Context) {
	name := c.Param("name")
	meta, found := h.catalog.GetMetadata(name)
	if !found {
		core.WriteResponse(c, errorx.WithCode(ErrToolNotFound, "tool %q not found", name), nil)
		return
	}
	core.WriteResponse(c, nil, okData(meta))
}

// ByCategory handles GET /v1/tools/category/:category.
func (h *ToolHandler) ByCategory(c *gin.Context) {
	category := toolEntity.Category(strings.ToLower(c.Param("category")))
	if !category.Valid() {
		core.WriteResponse(c, errorx.WithCode(ErrUnknownCategory, "unknown category %q", category), nil)
		return
	}
	core.WriteResponse(c, nil, okData(list(h.catalog.GetByCategory(category))))
}

// Search handles GET /v1/tools/search?q=.
func (h *ToolHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		core.WriteResponse(c, errorx.WithCode(ErrSearchEmpty, "q is required"), nil)
		return
	}
	core.WriteResponse(c, nil, okData(list(h.catalog.Search(q))))
}
