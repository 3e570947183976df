package builtin

import (
	"context"
	"fmt"

	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
)

func registerDrive(r *service.Registry, deps Deps) {
	r.Register(SearchDriveFiles, entity.ToolFunc(func(ctx context.Context, userID string, params map[string]any) (any, error) {
		query := str(params, "query")
		files, err := deps.Workspace.SearchFiles(ctx, userID, query, num(params, "limit", 10))
		if err != nil {
			return nil, fmt.Errorf("failed to search drive: %w", err)
		}
		return &entity.FileList{Query: query, Count: len(files), Files: files}, nil
	}), &entity.ToolMetadata{
		Description: "Search the user's drive files by name. Empty query lists recent files.",
		Category:    entity.CategoryDrive,
		Parameters: []entity.ParameterSpec{
			{Name: "query", Type: entity.ParamString, Description: "Text to match in file names"},
			{Name: "limit", Type: entity.ParamNumber, Description: "Maximum number of files, default 10"},
		},
		Examples: []entity.ToolExample{
			{Query: "Find my budget spreadsheet", ExpectedParams: map[string]any{"query": "budget"}},
			{Query: "Show my recent files", ExpectedParams: map[string]any{}},
		},
		TimeContext: entity.TimeAny,
		DataAccess:  entity.AccessRead,
	})
}
