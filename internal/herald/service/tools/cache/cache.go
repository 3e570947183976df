package cache

import (
	"context"
	"fmt"

	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/pkg/utils/json"
)

// Cache memoizes successful tool results. Get returns a not-found error on a
// miss or a stale entry. A returned result shares Data with the stored entry
// and must be treated as read-only.
type Cache interface {
	Get(ctx context.Context, key string) (*entity.ToolResult, error)
	Set(ctx context.Context, key string, result *entity.ToolResult) error
	Len() int
}

// Key builds the cache key from the tool name, the user, the request
// timezone and the parameters serialized with sorted keys.
func Key(tool, userID, zone string, params map[string]any) string {
	if params == nil {
		params = map[string]any{}
	}
	raw, err := json.MarshalSorted(params)
	if err != nil {
		raw = []byte(fmt.Sprint(params))
	}
	return tool + ":" + userID + ":" + zone + ":" + string(raw)
}
