package entity

import "time"

// Preferences is a user's stored personalization profile.
type Preferences struct {
	UserID             string             `json:"userId"`
	CommunicationStyle CommunicationStyle `json:"communicationStyle"`
	Interests          []string           `json:"interests,omitempty"`
	// Proactivity is low, medium or high.
	Proactivity string         `json:"proactivity,omitempty"`
	Timezone    string         `json:"timezone,omitempty"`
	Language    string         `json:"language,omitempty"`
	Custom      map[string]any `json:"custom,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type CommunicationStyle struct {
	// Tone is professional, casual, friendly, formal, enthusiastic or balanced.
	Tone string `json:"tone,omitempty"`
	// DetailLevel is brief, detailed, comprehensive or anything else for conversational.
	DetailLevel string `json:"detailLevel,omitempty"`
}

var (
	Tones        = []string{"professional", "casual", "friendly", "formal", "enthusiastic", "balanced"}
	DetailLevels = []string{"brief", "detailed", "comprehensive", "conversational"}
	Proactivity  = []string{"low", "medium", "high"}
)
