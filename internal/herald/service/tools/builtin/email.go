package builtin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
	wsEntity "github.com/kiosk404/herald/internal/herald/service/workspace/domain/entity"
)

func registerEmail(r *service.Registry, deps Deps) {
	r.Register(GetEmails, entity.ToolFunc(func(ctx context.Context, userID string, params map[string]any) (any, error) {
		q := wsEntity.EmailQuery{
			Text:       str(params, "query"),
			UnreadOnly: boolean(params, "unread_only"),
			Limit:      num(params, "limit", 10),
		}
		emails, err := deps.Workspace.ListEmails(ctx, userID, q)
		if err != nil {
			return nil, fmt.Errorf("failed to load emails: %w", err)
		}
		return &entity.EmailList{Query: q.Text, Count: len(emails), Emails: emails}, nil
	}), &entity.ToolMetadata{
		Description: "Get recent emails from the user's inbox, optionally filtered by text or unread status.",
		Category:    entity.CategoryEmail,
		Parameters: []entity.ParameterSpec{
			{Name: "query", Type: entity.ParamString, Description: "Text to match in subject, sender or body"},
			{Name: "unread_only", Type: entity.ParamBoolean, Description: "Only unread messages"},
			{Name: "limit", Type: entity.ParamNumber, Description: "Maximum number of emails, default 10"},
		},
		Examples: []entity.ToolExample{
			{Query: "Check my email", ExpectedParams: map[string]any{}},
			{Query: "Any unread emails from Carol?", ExpectedParams: map[string]any{"query": "carol", "unread_only": true}},
		},
		TimeContext: entity.TimeRecent,
		DataAccess:  entity.AccessRead,
	})

	r.Register(SendEmail, entity.ToolFunc(func(ctx context.Context, userID string, params map[string]any) (any, error) {
		to := strList(params, "to")
		if len(to) == 0 {
			return nil, fmt.Errorf("at least one recipient is required")
		}
		body := str(params, "body")
		email := &wsEntity.Email{
			ID:      uuid.NewString(),
			UserID:  userID,
			Folder:  wsEntity.FolderSent,
			From:    userID,
			To:      to,
			Subject: str(params, "subject"),
			Body:    body,
			Snippet: snippet(body, 120),
			Date:    deps.Now(),
		}
		if err := deps.Workspace.SaveEmail(ctx, email); err != nil {
			return nil, fmt.Errorf("failed to send email: %w", err)
		}
		return email, nil
	}), &entity.ToolMetadata{
		Description: "Send an email on behalf of the user.",
		Category:    entity.CategoryEmail,
		Parameters: []entity.ParameterSpec{
			{Name: "to", Type: entity.ParamArray, Description: "Recipient email addresses", Required: true},
			{Name: "subject", Type: entity.ParamString, Description: "Subject line", Required: true},
			{Name: "body", Type: entity.ParamString, Description: "Message body", Required: true},
		},
		Examples: []entity.ToolExample{
			{Query: "Email dave@example.com that I'm running late", ExpectedParams: map[string]any{"to": []string{"dave@example.com"}, "subject": "Running late", "body": "I'm running late."}},
		},
		TimeContext: entity.TimeCurrent,
		DataAccess:  entity.AccessWrite,
	})
}

func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
