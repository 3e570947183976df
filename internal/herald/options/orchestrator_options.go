package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// OrchestratorOptions tunes the query pipeline.
type OrchestratorOptions struct {
	HistoryLimit      int           `json:"history-limit"       mapstructure:"history-limit"`
	AutoCreateSession bool          `json:"auto-create-session" mapstructure:"auto-create-session"`
	SelectTimeout     time.Duration `json:"select-timeout"      mapstructure:"select-timeout"`
	GenerateTimeout   time.Duration `json:"generate-timeout"    mapstructure:"generate-timeout"`
	StoreTimeout      time.Duration `json:"store-timeout"       mapstructure:"store-timeout"`
}

func NewOrchestratorOptions() *OrchestratorOptions {
	return &OrchestratorOptions{
		HistoryLimit:      10,
		AutoCreateSession: true,
		SelectTimeout:     30 * time.Second,
		GenerateTimeout:   60 * time.Second,
		StoreTimeout:      5 * time.Second,
	}
}

func (o *OrchestratorOptions) Validate() []error {
	var errs []error
	if o.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("--orchestrator.history-limit must not be negative"))
	}
	for name, d := range map[string]time.Duration{
		"select-timeout":   o.SelectTimeout,
		"generate-timeout": o.GenerateTimeout,
		"store-timeout":    o.StoreTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("--orchestrator.%s must be positive", name))
		}
	}
	return errs
}

func (o *OrchestratorOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.HistoryLimit, "orchestrator.history-limit", o.HistoryLimit, "Recent messages and tool calls given to the model.")
	fs.BoolVar(&o.AutoCreateSession, "orchestrator.auto-create-session", o.AutoCreateSession, "Open a session for queries that carry none.")
	fs.DurationVar(&o.SelectTimeout, "orchestrator.select-timeout", o.SelectTimeout, "Timeout for the tool selection call.")
	fs.DurationVar(&o.GenerateTimeout, "orchestrator.generate-timeout", o.GenerateTimeout, "Timeout for response generation.")
	fs.DurationVar(&o.StoreTimeout, "orchestrator.store-timeout", o.StoreTimeout, "Timeout for session and preference store calls.")
}
