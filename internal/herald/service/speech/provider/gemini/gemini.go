package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/speech/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/speech/provider/spi"
	"github.com/kiosk404/herald/pkg/logger"
	"google.golang.org/genai"
)

const (
	Name = "gemini"

	DefaultSTTModel = "gemini-2.0-flash"
	DefaultTTSModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice    = "Kore"

	transcribePrompt = "Transcribe this audio exactly as spoken. Reply with the transcript only, no commentary."
)

var _ spi.Provider = (*Provider)(nil)

type Config struct {
	STTModel string
	TTSModel string
	Voice    string
	Timeout  time.Duration
}

// Provider speaks the Gemini generateContent API: audio in for STT, AUDIO
// response modality for TTS.
type Provider struct {
	client *genai.Client
	cfg    Config
}

func New(client *genai.Client, cfg Config) *Provider {
	if cfg.STTModel == "" {
		cfg.STTModel = DefaultSTTModel
	}
	if cfg.TTSModel == "" {
		cfg.TTSModel = DefaultTTSModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Provider{client: client, cfg: cfg}
}

func (p *Provider) Name() string { return Name }

func (p *Provider) SpeechToText(ctx context.Context, audio []byte, mimeType string) *entity.Transcription {
	if len(audio) == 0 {
		return &entity.Transcription{Error: "empty audio"}
	}
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(audio, mimeType),
			genai.NewPartFromText(transcribePrompt),
		}, genai.RoleUser),
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.cfg.STTModel, contents, nil)
	if err != nil {
		logger.Warn("[Speech] transcription failed: %v", err)
		return &entity.Transcription{Error: err.Error()}
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return &entity.Transcription{Error: "no speech detected"}
	}
	return &entity.Transcription{Success: true, Text: text}
}

func (p *Provider) TextToSpeech(ctx context.Context, text string) *entity.Synthesis {
	if strings.TrimSpace(text) == "" {
		return &entity.Synthesis{Error: "empty text"}
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: p.cfg.Voice},
			},
		},
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.cfg.TTSModel, genai.Text(text), cfg)
	if err != nil {
		logger.Warn("[Speech] synthesis failed: %v", err)
		return &entity.Synthesis{Error: err.Error()}
	}
	blob := firstInlineData(resp)
	if blob == nil || len(blob.Data) == 0 {
		return &entity.Synthesis{Error: "no audio returned"}
	}

	audio, mime := blob.Data, blob.MIMEType
	if rate, ok := pcmRate(mime); ok {
		audio, mime = WrapPCM(blob.Data, rate), "audio/wav"
	}
	return &entity.Synthesis{Success: true, AudioData: audio, MimeType: mime}
}

func firstInlineData(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil {
				return part.InlineData
			}
		}
	}
	return nil
}

func (p *Provider) STTModelName() string { return p.cfg.STTModel }

func (p *Provider) TTSModelName() string { return p.cfg.TTSModel }
