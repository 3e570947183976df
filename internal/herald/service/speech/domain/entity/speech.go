package entity

// Transcription is the outcome of a speech-to-text call.
type Transcription struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Synthesis is the outcome of a text-to-speech call.
type Synthesis struct {
	Success   bool   `json:"success"`
	AudioData []byte `json:"audioData,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	Error     string `json:"error,omitempty"`
}
