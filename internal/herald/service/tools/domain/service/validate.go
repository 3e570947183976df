package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/pkg/errno"
)

// ValidateParams checks params against the declared schema. Values the model
// commonly emits as strings ("5", "true") are coerced to the declared scalar
// type in the returned map. Undeclared keys pass through unless strict.
func ValidateParams(meta *entity.ToolMetadata, params map[string]any, strict bool) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}

	var problems []string
	for _, spec := range meta.Parameters {
		v, ok := out[spec.Name]
		if !ok || v == nil {
			if spec.Required {
				problems = append(problems, fmt.Sprintf("missing required parameter %q", spec.Name))
			}
			delete(out, spec.Name)
			continue
		}
		coerced, ok := coerce(spec.Type, v)
		if !ok {
			problems = append(problems, fmt.Sprintf("parameter %q must be %s, got %T", spec.Name, spec.Type, v))
			continue
		}
		out[spec.Name] = coerced
	}

	if strict {
		for k := range out {
			if _, declared := meta.Parameter(k); !declared {
				problems = append(problems, fmt.Sprintf("unknown parameter %q", k))
			}
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", errno.ErrInvalidParameter, strings.Join(problems, "; "))
	}
	return out, nil
}

func coerce(t entity.ParamType, v any) (any, bool) {
	switch t {
	case entity.ParamString:
		switch x := v.(type) {
		case string:
			return x, true
		case float64, int, int64, bool:
			return fmt.Sprint(x), true
		}
	case entity.ParamNumber:
		switch x := v.(type) {
		case float64:
			return x, true
		case float32:
			return float64(x), true
		case int:
			return float64(x), true
		case int64:
			return float64(x), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
				return f, true
			}
		}
	case entity.ParamBoolean:
		switch x := v.(type) {
		case bool:
			return x, true
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil {
				return b, true
			}
		}
	case entity.ParamObject:
		if m, ok := v.(map[string]any); ok {
			return m, true
		}
	case entity.ParamArray:
		switch x := v.(type) {
		case []any:
			return x, true
		case []string:
			out := make([]any, len(x))
			for i, s := range x {
				out[i] = s
			}
			return out, true
		}
	default:
		return v, true
	}
	return nil, false
}
