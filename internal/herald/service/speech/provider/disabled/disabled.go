package disabled

import (
	"context"

	"github.com/kiosk404/herald/internal/herald/service/speech/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/speech/provider/spi"
)

const (
	Name = "disabled"

	message = "speech is not configured"
)

var _ spi.Provider = (*Provider)(nil)

// Provider answers every call with a failure envelope.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Name() string { return Name }

func (p *Provider) SpeechToText(context.Context, []byte, string) *entity.Transcription {
	return &entity.Transcription{Error: message}
}

func (p *Provider) TextToSpeech(context.Context, string) *entity.Synthesis {
	return &entity.Synthesis{Error: message}
}
