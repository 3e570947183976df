package entity

import (
	"time"

	prefEntity "github.com/kiosk404/herald/internal/herald/service/preferences/domain/entity"
	sessEntity "github.com/kiosk404/herald/internal/herald/service/sessions/domain/entity"
)

type ResponseStyle string

const (
	StyleBrief          ResponseStyle = "brief"
	StyleDetailed       ResponseStyle = "detailed"
	StyleConversational ResponseStyle = "conversational"
)

// RequestPreferences are per-request rendering switches sent by the client.
type RequestPreferences struct {
	ResponseStyle  ResponseStyle `json:"responseStyle,omitempty"`
	IncludeActions bool          `json:"includeActions,omitempty"`
	IsVoiceMode    bool          `json:"isVoiceMode,omitempty"`
	CleanForSpeech bool          `json:"cleanForSpeech,omitempty"`
	IsVoiceQuery   bool          `json:"isVoiceQuery,omitempty"`
}

type CurrentContext struct {
	TimeOfDay string    `json:"timeOfDay"`
	DayOfWeek string    `json:"dayOfWeek"`
	Timestamp time.Time `json:"timestamp"`
}

// Personalization is attached by enrichment when a profile exists.
type Personalization struct {
	Profile        *prefEntity.Preferences `json:"profile,omitempty"`
	CurrentContext CurrentContext          `json:"currentContext"`
}

// UserContext is the request envelope threaded through one pipeline run.
type UserContext struct {
	Query           string             `json:"query"`
	Timestamp       time.Time          `json:"timestamp"`
	Timezone        string             `json:"timezone,omitempty"`
	SessionID       string             `json:"sessionId,omitempty"`
	Preferences     RequestPreferences `json:"preferences"`
	Personalization *Personalization   `json:"personalization,omitempty"`
}

// Location resolves Timezone, falling back to UTC.
func (uc *UserContext) Location() *time.Location {
	if uc.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(uc.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// VoiceMode reports whether the answer will be spoken.
func (uc *UserContext) VoiceMode() bool {
	return uc.Preferences.IsVoiceMode || uc.Preferences.IsVoiceQuery
}

// Tone returns the stored communication tone, or "".
func (uc *UserContext) Tone() string {
	if uc.Personalization == nil || uc.Personalization.Profile == nil {
		return ""
	}
	return uc.Personalization.Profile.CommunicationStyle.Tone
}

// ConversationContext holds recent session history, oldest first.
type ConversationContext struct {
	Messages  []*sessEntity.Message  `json:"messages"`
	ToolCalls []*sessEntity.ToolCall `json:"toolCalls"`
}

func EmptyConversation() *ConversationContext {
	return &ConversationContext{}
}

func (c *ConversationContext) Empty() bool {
	return c == nil || (len(c.Messages) == 0 && len(c.ToolCalls) == 0)
}
