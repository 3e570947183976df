package v1

import (
	"time"

	orchEntity "github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
)

// --- Chat ---

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Query       string                         `json:"query"`
	SessionID   string                         `json:"sessionId,omitempty"`
	Timezone    string                         `json:"timezone,omitempty"`
	Preferences *orchEntity.RequestPreferences `json:"preferences,omitempty"`
	// Stream switches the response to server-sent events.
	Stream bool `json:"stream,omitempty"`
}

// ChatData is the payload of a chat reply. Raw tool data is left out.
type ChatData struct {
	Query            string   `json:"query"`
	Response         string   `json:"response"`
	OriginalResponse string   `json:"originalResponse,omitempty"`
	ToolUsed         string   `json:"toolUsed,omitempty"`
	Reasoning        string   `json:"reasoning,omitempty"`
	ChainedTools     []string `json:"chainedTools,omitempty"`
	SessionID        string   `json:"sessionId,omitempty"`
	SuggestedActions []string `json:"suggestedActions,omitempty"`
	State            string   `json:"state"`
}

// ChatResponse wraps ChatData.
type ChatResponse struct {
	Success bool      `json:"success"`
	Data    *ChatData `json:"data"`
}

// StateEvent is one SSE "state" event.
type StateEvent struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Detail string `json:"detail,omitempty"`
	At     string `json:"at"`
}

// --- Query ---

// QueryRequest is the body of POST /v1/query.
type QueryRequest struct {
	Query       string                        `json:"query"`
	SessionID   string                        `json:"sessionId,omitempty"`
	Timezone    string                        `json:"timezone,omitempty"`
	Preferences orchEntity.RequestPreferences `json:"preferences"`
}

// --- Speech ---

// SpeechData is the payload of POST /v1/speech.
type SpeechData struct {
	Transcript string `json:"transcript"`
	Response   string `json:"response"`
	// Audio is base64 encoded; empty when synthesis failed.
	Audio     string `json:"audio,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	ToolUsed  string `json:"toolUsed,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	TTSError  string `json:"ttsError,omitempty"`
}

// SpeechResponse wraps SpeechData.
type SpeechResponse struct {
	Success bool        `json:"success"`
	Data    *SpeechData `json:"data"`
}

// --- Sessions ---

// CreateSessionRequest is the body of POST /v1/sessions.
type CreateSessionRequest struct {
	Title string `json:"title"`
}

// SessionResponse describes a session.
type SessionResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// MessageResponse is one stored message.
type MessageResponse struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"createdAt"`
}

// ToolCallResponse is one stored tool call.
type ToolCallResponse struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	Chained    []string       `json:"chained,omitempty"`
	CreatedAt  string         `json:"createdAt"`
}

// SessionDetailResponse is a session with its history.
type SessionDetailResponse struct {
	SessionResponse
	Messages  []MessageResponse  `json:"messages"`
	ToolCalls []ToolCallResponse `json:"toolCalls"`
}

// --- Common ---

const timeFormat = time.RFC3339

// FormatTime formats a time value for API responses.
func FormatTime(t time.Time) string {
	return t.Format(timeFormat)
}

// DataResponse is the generic success envelope.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func okData(data any) DataResponse {
	return DataResponse{Success: true, Data: data}
}
