package builtin

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
)

// mathFunctions is the whitelist available to calculate.
var mathFunctions = map[string]govaluate.ExpressionFunction{
	"sqrt":  unary(math.Sqrt),
	"abs":   unary(math.Abs),
	"round": unary(math.Round),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"ln":    unary(math.Log),
	"log10": unary(math.Log10),
	"pow": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("pow expects 2 arguments")
		}
		x, ok1 := args[0].(float64)
		y, ok2 := args[1].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("pow expects numbers")
		}
		return math.Pow(x, y), nil
	},
}

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("expected a number, got %T", args[0])
		}
		return fn(x), nil
	}
}

// Evaluate computes an arithmetic expression with the whitelisted functions.
func Evaluate(expression string) (any, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(expression, mathFunctions)
	if err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}
	result, err := expr.Evaluate(map[string]interface{}{"pi": math.Pi, "e": math.E})
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	if f, ok := result.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return nil, fmt.Errorf("result is not a finite number")
	}
	return result, nil
}

func registerSystem(r *service.Registry, deps Deps) {
	r.Register(Calculate, entity.ToolFunc(func(_ context.Context, _ string, params map[string]any) (any, error) {
		expression := str(params, "expression")
		result, err := Evaluate(expression)
		if err != nil {
			return nil, err
		}
		return &entity.Calculation{Expression: expression, Result: result}, nil
	}), &entity.ToolMetadata{
		Description: "Evaluate an arithmetic expression. Supports + - * / % ** and sqrt, abs, round, floor, ceil, ln, log10, pow.",
		Category:    entity.CategorySystem,
		Parameters: []entity.ParameterSpec{
			{Name: "expression", Type: entity.ParamString, Description: "Expression to evaluate", Required: true, Examples: []string{"15 * 0.2", "sqrt(144) + 3"}},
		},
		Examples: []entity.ToolExample{
			{Query: "What's 18% of 240?", ExpectedParams: map[string]any{"expression": "240 * 0.18"}},
		},
		TimeContext: entity.TimeAny,
		DataAccess:  entity.AccessRead,
	})

	r.Register(GetCurrentTime, entity.ToolFunc(func(ctx context.Context, _ string, params map[string]any) (any, error) {
		loc := entity.LocationFrom(ctx)
		if tz := str(params, "timezone"); tz != "" {
			l, err := time.LoadLocation(tz)
			if err != nil {
				return nil, fmt.Errorf("unknown timezone %q", tz)
			}
			loc = l
		}
		now := deps.Now().In(loc)
		return &entity.CurrentTime{
			Timezone:  loc.String(),
			Time:      now.Format("15:04"),
			Date:      now.Format("2006-01-02"),
			DayOfWeek: now.Weekday().String(),
		}, nil
	}), &entity.ToolMetadata{
		Description: "Get the current date and time, optionally in another IANA timezone.",
		Category:    entity.CategorySystem,
		Parameters: []entity.ParameterSpec{
			{Name: "timezone", Type: entity.ParamString, Description: "IANA timezone name", Examples: []string{"Europe/Paris"}},
		},
		Examples: []entity.ToolExample{
			{Query: "What time is it in Tokyo?", ExpectedParams: map[string]any{"timezone": "Asia/Tokyo"}},
		},
		TimeContext: entity.TimeRealtime,
		DataAccess:  entity.AccessRead,
	})
}
