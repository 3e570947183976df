package repo

import (
	"context"

	"github.com/kiosk404/herald/internal/herald/service/workspace/domain/entity"
)

// EventRepository persists calendar events.
type EventRepository interface {
	// ListEvents returns the user's events matching q, ordered by start time.
	ListEvents(ctx context.Context, userID string, q entity.EventQuery) ([]*entity.Event, error)
	// SaveEvent creates or replaces an event.
	SaveEvent(ctx context.Context, event *entity.Event) error
}

// EmailRepository persists mailbox messages.
type EmailRepository interface {
	// ListEmails returns the user's emails matching q, newest first.
	ListEmails(ctx context.Context, userID string, q entity.EmailQuery) ([]*entity.Email, error)
	// SaveEmail creates or replaces an email.
	SaveEmail(ctx context.Context, email *entity.Email) error
}

// FileRepository persists drive files.
type FileRepository interface {
	// SearchFiles returns files whose name contains text, most recently modified first.
	SearchFiles(ctx context.Context, userID, text string, limit int) ([]*entity.File, error)
	// SaveFile creates or replaces a file.
	SaveFile(ctx context.Context, file *entity.File) error
}

// DocumentRepository persists documents.
type DocumentRepository interface {
	SaveDocument(ctx context.Context, doc *entity.Document) error
	GetDocument(ctx context.Context, userID, id string) (*entity.Document, error)
}

// WorkspaceRepository is the combined productivity data backend.
type WorkspaceRepository interface {
	EventRepository
	EmailRepository
	FileRepository
	DocumentRepository
}
