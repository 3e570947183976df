package spi

import (
	"context"

	"github.com/kiosk404/herald/internal/herald/service/speech/domain/entity"
)

// Provider converts between audio and text. Failures are reported in the
// returned envelope, never as a panic or a nil result.
type Provider interface {
	Name() string
	SpeechToText(ctx context.Context, audio []byte, mimeType string) *entity.Transcription
	TextToSpeech(ctx context.Context, text string) *entity.Synthesis
}
