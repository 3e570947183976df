package server

import (
	"net"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// RecommendedHomeDir defines the default directory used to place all herald service configurations.
	RecommendedHomeDir = ".herald"

	// RecommendedEnvPrefix defines the ENV prefix used by all herald service.
	RecommendedEnvPrefix = "HERALD"
)

// Config is a structure used to configure a GenericAPIServer.
// Its members are sorted roughly in order of importance for composers.
type Config struct {
	BindAddress     string
	BindPort        int
	Mode            string
	Healthz         bool
	EnableProfiling bool
	EnableMetrics   bool
	ShutdownTimeout time.Duration
}

// NewConfig returns a Config struct with the default values.
func NewConfig() *Config {
	return &Config{
		BindAddress:     "127.0.0.1",
		BindPort:        11789,
		Mode:            gin.ReleaseMode,
		Healthz:         true,
		EnableProfiling: false,
		EnableMetrics:   true,
		ShutdownTimeout: 10 * time.Second,
	}
}

// CompletedConfig is the completed configuration for GenericAPIServer.
type CompletedConfig struct {
	*Config
}

// Complete fills in any fields not set that are required to have valid data. It's mutating the receiver.
func (c *Config) Complete() CompletedConfig {
	if c.Mode == "" {
		c.Mode = gin.ReleaseMode
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return CompletedConfig{c}
}

// Address joins host IP address and host port number into a address string, like: 0.0.0.0:8443.
func (c *Config) Address() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.BindPort))
}

// New returns a new instance of GenericAPIServer from the given config.
func (c CompletedConfig) New() (*GenericAPIServer, error) {
	gin.SetMode(c.Mode)

	s := &GenericAPIServer{
		address:         c.Address(),
		healthz:         c.Healthz,
		enableProfiling: c.EnableProfiling,
		enableMetrics:   c.EnableMetrics,
		shutdownTimeout: c.ShutdownTimeout,
		Engine:          gin.New(),
	}

	initGenericAPIServer(s)

	return s, nil
}
