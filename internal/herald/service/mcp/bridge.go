package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
	"github.com/kiosk404/herald/pkg/logger"
	"github.com/kiosk404/herald/pkg/utils/json"
	"github.com/mark3labs/mcp-go/mcp"
)

// Register adds every remote tool to the registry under category external
// and returns how many were registered.
func Register(registry *service.Registry, remote []RemoteTool) int {
	n := 0
	for _, rt := range remote {
		if rt.Impl == nil || rt.Spec.Name == "" {
			continue
		}
		registry.Register(rt.Spec.Name, invoker(rt), Metadata(rt))
		n++
	}
	logger.Info("[MCP] registered %d external tools", n)
	return n
}

// Metadata describes a remote tool in registry terms. Declared properties are
// listed in name order; JSON Schema "integer" maps to number.
func Metadata(rt RemoteTool) *entity.ToolMetadata {
	desc := strings.TrimSpace(rt.Spec.Description)
	if desc == "" {
		desc = fmt.Sprintf("External tool %s provided by %s", rt.Spec.Name, rt.Server)
	}

	required := make(map[string]bool, len(rt.Spec.InputSchema.Required))
	for _, r := range rt.Spec.InputSchema.Required {
		required[r] = true
	}
	names := make([]string, 0, len(rt.Spec.InputSchema.Properties))
	for name := range rt.Spec.InputSchema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]entity.ParameterSpec, 0, len(names))
	for _, name := range names {
		prop, _ := rt.Spec.InputSchema.Properties[name].(map[string]any)
		typ, _ := prop["type"].(string)
		pdesc, _ := prop["description"].(string)
		params = append(params, entity.ParameterSpec{
			Name:        name,
			Type:        paramType(typ),
			Description: pdesc,
			Required:    required[name],
		})
	}

	return &entity.ToolMetadata{
		Name:        rt.Spec.Name,
		Description: desc,
		Category:    entity.CategoryExternal,
		Parameters:  params,
		TimeContext: entity.TimeAny,
		DataAccess:  dataAccess(rt.Spec),
	}
}

func paramType(t string) entity.ParamType {
	switch t {
	case "integer", "number":
		return entity.ParamNumber
	case "boolean":
		return entity.ParamBoolean
	case "object":
		return entity.ParamObject
	case "array":
		return entity.ParamArray
	default:
		return entity.ParamString
	}
}

// dataAccess trusts the server's read-only hint; everything else may write.
func dataAccess(spec mcp.Tool) entity.DataAccess {
	if spec.Annotations.ReadOnlyHint != nil && *spec.Annotations.ReadOnlyHint {
		return entity.AccessRead
	}
	return entity.AccessBoth
}

func invoker(rt RemoteTool) entity.Tool {
	return entity.ToolFunc(func(ctx context.Context, _ string, params map[string]any) (any, error) {
		if params == nil {
			params = map[string]any{}
		}
		args, err := json.MarshalString(params)
		if err != nil {
			return nil, fmt.Errorf("encode arguments: %w", err)
		}
		out, err := rt.Impl.InvokableRun(ctx, args)
		if err != nil {
			return nil, err
		}
		var decoded any
		if err := json.UnmarshalString(out, &decoded); err == nil {
			return decoded, nil
		}
		return out, nil
	})
}
