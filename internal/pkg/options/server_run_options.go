package options

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiosk404/herald/internal/pkg/server"
	"github.com/spf13/pflag"
)

// ServerRunOptions contains the options while running a generic api server.
type ServerRunOptions struct {
	BindAddress     string        `json:"bind-address"     mapstructure:"bind-address"`
	BindPort        int           `json:"bind-port"        mapstructure:"bind-port"`
	Mode            string        `json:"mode"             mapstructure:"mode"`
	Healthz         bool          `json:"healthz"          mapstructure:"healthz"`
	EnableProfiling bool          `json:"profiling"        mapstructure:"profiling"`
	EnableMetrics   bool          `json:"metrics"          mapstructure:"metrics"`
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewServerRunOptions creates a new ServerRunOptions object with default parameters.
func NewServerRunOptions() *ServerRunOptions {
	defaults := server.NewConfig()

	return &ServerRunOptions{
		BindAddress:     defaults.BindAddress,
		BindPort:        defaults.BindPort,
		Mode:            defaults.Mode,
		Healthz:         defaults.Healthz,
		EnableProfiling: defaults.EnableProfiling,
		EnableMetrics:   defaults.EnableMetrics,
		ShutdownTimeout: defaults.ShutdownTimeout,
	}
}

// ApplyTo applies the run options to the method receiver and returns self.
func (s *ServerRunOptions) ApplyTo(c *server.Config) error {
	c.BindAddress = s.BindAddress
	c.BindPort = s.BindPort
	c.Mode = s.Mode
	c.Healthz = s.Healthz
	c.EnableProfiling = s.EnableProfiling
	c.EnableMetrics = s.EnableMetrics
	c.ShutdownTimeout = s.ShutdownTimeout

	return nil
}

// Validate checks validation of ServerRunOptions.
func (s *ServerRunOptions) Validate() []error {
	var errs []error

	if s.BindPort < 1 || s.BindPort > 65535 {
		errs = append(errs, fmt.Errorf("--serving.bind-port %v must be between 1 and 65535", s.BindPort))
	}
	switch s.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		errs = append(errs, fmt.Errorf("--serving.mode %q must be one of debug, release, test", s.Mode))
	}

	return errs
}

// AddFlags adds flags for a specific APIServer to the specified FlagSet.
func (s *ServerRunOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.BindAddress, "serving.bind-address", s.BindAddress, "The IP address on which to serve the HTTP API.")
	fs.IntVar(&s.BindPort, "serving.bind-port", s.BindPort, "The port on which to serve the HTTP API.")
	fs.StringVar(&s.Mode, "serving.mode", s.Mode, ""+
		"Start the server in a specified server mode. Supported server mode: debug, test, release.")
	fs.BoolVar(&s.Healthz, "serving.healthz", s.Healthz, ""+
		"Add self readiness check and install /healthz router.")
	fs.BoolVar(&s.EnableProfiling, "serving.profiling", s.EnableProfiling, ""+
		"Enable profiling via web interface host:port/debug/pprof/")
	fs.BoolVar(&s.EnableMetrics, "serving.metrics", s.EnableMetrics, ""+
		"Expose prometheus metrics on /metrics.")
	fs.DurationVar(&s.ShutdownTimeout, "serving.shutdown-timeout", s.ShutdownTimeout, ""+
		"How long in-flight HTTP requests may take to drain on shutdown.")
}
