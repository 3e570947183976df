package options

import (
	"errors"

	"github.com/spf13/pflag"
)

// GatewayOptions configures HTTP authentication and caller identity.
type GatewayOptions struct {
	AuthEnabled bool `json:"auth-enabled" mapstructure:"auth-enabled"`
	// Token can also come from HERALD_GATEWAY_TOKEN.
	Token      string `json:"token"       mapstructure:"token"`
	AllowLocal bool   `json:"allow-local" mapstructure:"allow-local"`

	// DefaultUser is used when a request carries no X-User-ID header.
	DefaultUser string `json:"default-user" mapstructure:"default-user"`
}

func NewGatewayOptions() *GatewayOptions {
	return &GatewayOptions{
		AllowLocal:  true,
		DefaultUser: "default",
	}
}

func (o *GatewayOptions) Validate() []error {
	if o.DefaultUser == "" {
		return []error{errors.New("--gateway.default-user must not be empty")}
	}
	return nil
}

func (o *GatewayOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.AuthEnabled, "gateway.auth-enabled", o.AuthEnabled, "Require a bearer token on API requests.")
	fs.StringVar(&o.Token, "gateway.token", o.Token, "Expected bearer token.")
	fs.BoolVar(&o.AllowLocal, "gateway.allow-local", o.AllowLocal, "Skip authentication for loopback clients.")
	fs.StringVar(&o.DefaultUser, "gateway.default-user", o.DefaultUser, "User id assumed when X-User-ID is absent.")
}
