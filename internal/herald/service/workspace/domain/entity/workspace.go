package entity

import (
	"strings"
	"time"
)

// Event is a calendar entry owned by a user.
type Event struct {
	ID          string    `json:"id"                    yaml:"id"`
	UserID      string    `json:"userId"                yaml:"user_id"`
	Title       string    `json:"title"                 yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description"`
	Location    string    `json:"location,omitempty"    yaml:"location"`
	Start       time.Time `json:"start"                 yaml:"start"`
	End         time.Time `json:"end"                   yaml:"end"`
	Attendees   []string  `json:"attendees,omitempty"   yaml:"attendees"`
}

// Email is a mailbox message. Sent mail is stored with Folder "sent".
type Email struct {
	ID      string    `json:"id"             yaml:"id"`
	UserID  string    `json:"userId"         yaml:"user_id"`
	Folder  string    `json:"folder"         yaml:"folder"`
	From    string    `json:"from"           yaml:"from"`
	To      []string  `json:"to"             yaml:"to"`
	Subject string    `json:"subject"        yaml:"subject"`
	Snippet string    `json:"snippet"        yaml:"snippet"`
	Body    string    `json:"body,omitempty" yaml:"body"`
	Date    time.Time `json:"date"           yaml:"date"`
	Unread  bool      `json:"unread"         yaml:"unread"`
}

const (
	FolderInbox = "inbox"
	FolderSent  = "sent"
)

// File is a drive file. Documents created by the assistant also appear here.
type File struct {
	ID         string    `json:"id"            yaml:"id"`
	UserID     string    `json:"userId"        yaml:"user_id"`
	Name       string    `json:"name"          yaml:"name"`
	MimeType   string    `json:"mimeType"      yaml:"mime_type"`
	Owner      string    `json:"owner"         yaml:"owner"`
	URL        string    `json:"url,omitempty" yaml:"url"`
	ModifiedAt time.Time `json:"modifiedAt"    yaml:"modified_at"`
}

// Document is a text document with content.
type Document struct {
	ID        string    `json:"id"            yaml:"id"`
	UserID    string    `json:"userId"        yaml:"user_id"`
	Title     string    `json:"title"         yaml:"title"`
	Content   string    `json:"content"       yaml:"content"`
	URL       string    `json:"url,omitempty" yaml:"url"`
	CreatedAt time.Time `json:"createdAt"     yaml:"created_at"`
}

// EventQuery filters calendar events. A zero bound is open.
type EventQuery struct {
	From  time.Time
	To    time.Time
	Text  string
	Limit int
}

// EmailQuery filters mailbox messages.
type EmailQuery struct {
	Folder     string
	Text       string
	UnreadOnly bool
	Limit      int
}

func (q EventQuery) Match(e *Event) bool {
	if !q.From.IsZero() && e.End.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && !e.Start.Before(q.To) {
		return false
	}
	return q.Text == "" || containsFold(e.Title, q.Text) || containsFold(e.Description, q.Text) || containsFold(e.Location, q.Text)
}

func (q EmailQuery) Match(e *Email) bool {
	folder := q.Folder
	if folder == "" {
		folder = FolderInbox
	}
	if e.Folder != folder {
		return false
	}
	if q.UnreadOnly && !e.Unread {
		return false
	}
	if q.Text == "" {
		return true
	}
	return containsFold(e.Subject, q.Text) || containsFold(e.From, q.Text) ||
		containsFold(e.Snippet, q.Text) || containsFold(e.Body, q.Text)
}

// MatchFile reports whether text occurs in the file name. Empty text matches all.
func MatchFile(f *File, text string) bool {
	return text == "" || containsFold(f.Name, text)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
