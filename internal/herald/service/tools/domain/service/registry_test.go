package service

import (
	"context"
	"testing"

	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constTool(v any) entity.Tool {
	return entity.ToolFunc(func(context.Context, string, map[string]any) (any, error) {
		return v, nil
	})
}

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register("get_calendar_events", constTool("calendar"), &entity.ToolMetadata{
		Description: "Fetch calendar events for a date",
		Category:    entity.CategoryCalendar,
		DataAccess:  entity.AccessRead,
		Examples:    []entity.ToolExample{{Query: "What's on my schedule tomorrow?"}},
	})
	r.Register("get_emails", constTool("emails"), &entity.ToolMetadata{
		Description: "List recent emails",
		Category:    entity.CategoryEmail,
		DataAccess:  entity.AccessRead,
	})
	r.Register("web_search", constTool("search"), &entity.ToolMetadata{
		Description: "Search the web",
		Category:    entity.CategoryWeb,
		DataAccess:  entity.AccessRead,
	})
	return r
}

func TestRegistry_Lookup(t *testing.T) {
	r := newTestRegistry()

	for _, meta := range r.GetAllMetadata() {
		tool, ok := r.GetTool(meta.Name)
		assert.True(t, ok)
		assert.NotNil(t, tool)
		m, ok := r.GetMetadata(meta.Name)
		assert.True(t, ok)
		assert.Equal(t, meta.Name, m.Name)
	}

	tool, ok := r.GetTool("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, tool)
	_, ok = r.GetMetadata("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_GetAllMetadataSorted(t *testing.T) {
	r := newTestRegistry()
	all := r.GetAllMetadata()
	require.Len(t, all, 3)
	assert.Equal(t, "get_calendar_events", all[0].Name)
	assert.Equal(t, "get_emails", all[1].Name)
	assert.Equal(t, "web_search", all[2].Name)
}

func TestRegistry_DuplicateIsLastWriteWins(t *testing.T) {
	r := newTestRegistry()
	r.Register("web_search", constTool("replaced"), &entity.ToolMetadata{
		Description: "Replacement search",
		Category:    entity.CategorySearch,
	})

	assert.Equal(t, 3, r.Len())
	meta, ok := r.GetMetadata("web_search")
	require.True(t, ok)
	assert.Equal(t, "Replacement search", meta.Description)

	tool, _ := r.GetTool("web_search")
	out, err := tool.Invoke(context.Background(), "u", nil)
	require.NoError(t, err)
	assert.Equal(t, "replaced", out)
}

func TestRegistry_MetadataIsCopied(t *testing.T) {
	r := newTestRegistry()
	meta, _ := r.GetMetadata("get_emails")
	meta.Description = "changed"

	again, _ := r.GetMetadata("get_emails")
	assert.Equal(t, "List recent emails", again.Description)
}

func TestRegistry_ByCategory(t *testing.T) {
	r := newTestRegistry()
	got := r.GetByCategory(entity.CategoryEmail)
	require.Len(t, got, 1)
	assert.Equal(t, "get_emails", got[0].Name)
	assert.Empty(t, r.GetByCategory(entity.CategorySocial))
}

func TestRegistry_Search(t *testing.T) {
	r := newTestRegistry()

	tests := []struct {
		text string
		want []string
	}{
		{"WEB", []string{"web_search"}},
		{"calendar", []string{"get_calendar_events"}},
		{"schedule tomorrow", []string{"get_calendar_events"}},
		{"get_", []string{"get_calendar_events", "get_emails"}},
		{"nothing matches this", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var names []string
			for _, m := range r.Search(tt.text) {
				names = append(names, m.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
