package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
	wsEntity "github.com/kiosk404/herald/internal/herald/service/workspace/domain/entity"
)

const documentMimeType = "text/markdown"

func registerDocuments(r *service.Registry, deps Deps) {
	r.Register(CreateDocument, entity.ToolFunc(func(ctx context.Context, userID string, params map[string]any) (any, error) {
		now := deps.Now()
		id := uuid.NewString()
		doc := &wsEntity.Document{
			ID:        id,
			UserID:    userID,
			Title:     str(params, "title"),
			Content:   str(params, "content"),
			URL:       "herald://documents/" + id,
			CreatedAt: now,
		}
		if err := deps.Workspace.SaveDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to create document: %w", err)
		}
		// Documents show up in drive search as well.
		file := &wsEntity.File{
			ID:         id,
			UserID:     userID,
			Name:       doc.Title,
			MimeType:   documentMimeType,
			Owner:      userID,
			URL:        doc.URL,
			ModifiedAt: now,
		}
		if err := deps.Workspace.SaveFile(ctx, file); err != nil {
			return nil, fmt.Errorf("failed to index document: %w", err)
		}
		return doc, nil
	}), &entity.ToolMetadata{
		Description: "Create a new document with the given title and markdown content.",
		Category:    entity.CategoryDocuments,
		Parameters: []entity.ParameterSpec{
			{Name: "title", Type: entity.ParamString, Description: "Document title", Required: true},
			{Name: "content", Type: entity.ParamString, Description: "Document body in markdown", Required: true},
		},
		Examples: []entity.ToolExample{
			{Query: "Create a doc called Trip Ideas with a packing list", ExpectedParams: map[string]any{"title": "Trip Ideas", "content": "## Packing list\n- passport"}},
		},
		TimeContext: entity.TimeAny,
		DataAccess:  entity.AccessWrite,
	})

	r.Register(SummarizeDocument, entity.ToolFunc(func(ctx context.Context, userID string, params map[string]any) (any, error) {
		source, text := "text", str(params, "text")
		if id := str(params, "document_id"); id != "" {
			doc, err := deps.Workspace.GetDocument(ctx, userID, id)
			if err != nil {
				return nil, fmt.Errorf("failed to load document %s: %w", id, err)
			}
			source, text = doc.Title, doc.Content
		}
		if text == "" {
			return nil, fmt.Errorf("either document_id or text is required")
		}

		summary, err := complete(ctx, deps,
			"You summarize documents. Reply with a concise markdown summary of the key points and any action items.",
			text)
		if err != nil {
			return nil, err
		}
		return &entity.Summary{Source: source, Summary: summary}, nil
	}), &entity.ToolMetadata{
		Description: "Summarize a stored document by id, or a block of text.",
		Category:    entity.CategoryDocuments,
		Parameters: []entity.ParameterSpec{
			{Name: "document_id", Type: entity.ParamString, Description: "Id of a stored document"},
			{Name: "text", Type: entity.ParamString, Description: "Raw text to summarize"},
		},
		Examples: []entity.ToolExample{
			{Query: "Summarize this: <pasted notes>", ExpectedParams: map[string]any{"text": "<pasted notes>"}},
			{Query: "Summarize my meeting notes and save it", ExpectedParams: map[string]any{"document_id": "..."}},
		},
		TimeContext: entity.TimeAny,
		DataAccess:  entity.AccessRead,
	})
}

// complete runs a single system+user exchange against the configured model.
func complete(ctx context.Context, deps Deps, system, user string) (string, error) {
	if deps.ChatModel == nil {
		return "", fmt.Errorf("no reasoning model configured")
	}
	msg, err := deps.ChatModel.Generate(ctx, []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	})
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	return strings.TrimSpace(msg.Content), nil
}
