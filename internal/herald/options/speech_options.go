package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// SpeechOptions configures speech-to-text and text-to-speech.
type SpeechOptions struct {
	Provider string        `json:"provider"  mapstructure:"provider"`
	APIKey   string        `json:"api-key"   mapstructure:"api-key"`
	BaseURL  string        `json:"base-url"  mapstructure:"base-url"`
	STTModel string        `json:"stt-model" mapstructure:"stt-model"`
	TTSModel string        `json:"tts-model" mapstructure:"tts-model"`
	Voice    string        `json:"voice"     mapstructure:"voice"`
	Timeout  time.Duration `json:"timeout"   mapstructure:"timeout"`
	// MaxUploadBytes bounds the audio accepted by /v1/speech.
	MaxUploadBytes int64 `json:"max-upload-bytes" mapstructure:"max-upload-bytes"`
}

func NewSpeechOptions() *SpeechOptions {
	return &SpeechOptions{
		Provider:       "gemini",
		APIKey:         "${GOOGLE_API_KEY}",
		Voice:          "Kore",
		Timeout:        30 * time.Second,
		MaxUploadBytes: 10 << 20,
	}
}

func (o *SpeechOptions) Validate() []error {
	var errs []error
	if o.Provider != "gemini" && o.Provider != "disabled" {
		errs = append(errs, fmt.Errorf("--speech.provider %q must be gemini or disabled", o.Provider))
	}
	if o.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("--speech.max-upload-bytes must be positive"))
	}
	return errs
}

func (o *SpeechOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Provider, "speech.provider", o.Provider, "Speech provider: gemini or disabled.")
	fs.StringVar(&o.APIKey, "speech.api-key", o.APIKey, "API key for the speech provider, ${ENV} references allowed.")
	fs.StringVar(&o.BaseURL, "speech.base-url", o.BaseURL, "Override the speech provider endpoint.")
	fs.StringVar(&o.STTModel, "speech.stt-model", o.STTModel, "Model used for transcription.")
	fs.StringVar(&o.TTSModel, "speech.tts-model", o.TTSModel, "Model used for speech synthesis.")
	fs.StringVar(&o.Voice, "speech.voice", o.Voice, "Prebuilt voice name for synthesis.")
	fs.DurationVar(&o.Timeout, "speech.timeout", o.Timeout, "Timeout for a single speech call.")
	fs.Int64Var(&o.MaxUploadBytes, "speech.max-upload-bytes", o.MaxUploadBytes, "Largest accepted audio upload.")
}
