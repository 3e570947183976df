package mcp

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	name string
	args string
	out  string
}

func (f *fakeRemote) Info(context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{Name: f.name}, nil
}

func (f *fakeRemote) InvokableRun(_ context.Context, args string, _ ...tool.Option) (string, error) {
	f.args = args
	return f.out, nil
}

func weatherSpec() mcp.Tool {
	readOnly := true
	return mcp.Tool{
		Name:        "get_weather",
		Description: "Current weather for a city",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"city":  map[string]any{"type": "string", "description": "City name"},
				"days":  map[string]any{"type": "integer"},
				"units": map[string]any{"type": "string"},
			},
			Required: []string{"city"},
		},
		Annotations: mcp.ToolAnnotation{ReadOnlyHint: &readOnly},
	}
}

func TestMetadata(t *testing.T) {
	meta := Metadata(RemoteTool{Server: "weather", Spec: weatherSpec()})

	assert.Equal(t, "get_weather", meta.Name)
	assert.Equal(t, entity.CategoryExternal, meta.Category)
	assert.Equal(t, entity.AccessRead, meta.DataAccess)
	require.Len(t, meta.Parameters, 3)
	assert.Equal(t, "city", meta.Parameters[0].Name)
	assert.True(t, meta.Parameters[0].Required)
	assert.Equal(t, "City name", meta.Parameters[0].Description)
	assert.Equal(t, entity.ParamNumber, meta.Parameters[1].Type)
	assert.False(t, meta.Parameters[2].Required)
}

func TestMetadataDefaults(t *testing.T) {
	meta := Metadata(RemoteTool{Server: "misc", Spec: mcp.Tool{Name: "ping"}})
	assert.Equal(t, "External tool ping provided by misc", meta.Description)
	assert.Equal(t, entity.AccessBoth, meta.DataAccess)
	assert.Empty(t, meta.Parameters)
}

func TestRegisterAndInvoke(t *testing.T) {
	registry := service.NewRegistry()
	remote := &fakeRemote{name: "get_weather", out: `{"temp":21}`}
	plain := &fakeRemote{name: "echo", out: "not json"}

	n := Register(registry, []RemoteTool{
		{Server: "weather", Spec: weatherSpec(), Impl: remote},
		{Server: "misc", Spec: mcp.Tool{Name: "echo"}, Impl: plain},
		{Server: "misc", Spec: mcp.Tool{Name: "broken"}},
	})
	assert.Equal(t, 2, n)
	assert.Len(t, registry.GetByCategory(entity.CategoryExternal), 2)

	impl, ok := registry.GetTool("get_weather")
	require.True(t, ok)
	out, err := impl.Invoke(context.Background(), "alice", map[string]any{"city": "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, `{"city":"Lisbon"}`, remote.args)
	assert.Equal(t, map[string]any{"temp": float64(21)}, out)

	echo, ok := registry.GetTool("echo")
	require.True(t, ok)
	out, err = echo.Invoke(context.Background(), "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "not json", out)
	assert.Equal(t, "{}", plain.args)
}
