package config

import (
	"github.com/kiosk404/herald/internal/herald/options"
)

// Config is the running configuration structure of the herald service.
type Config struct {
	*options.Options
}

// CreateConfigFromOptions creates a running configuration instance based
// on a given herald command line or configuration file option.
func CreateConfigFromOptions(opts *options.Options) (*Config, error) {
	return &Config{opts}, nil
}
