package options

import (
	genericoptions "github.com/kiosk404/herald/internal/pkg/options"
	"github.com/kiosk404/herald/internal/pkg/server"
	"github.com/kiosk404/herald/pkg/utils/cliflag"
	"github.com/kiosk404/herald/pkg/utils/json"
)

type Options struct {
	GRPCOptions             *genericoptions.GRPCOptions      `json:"grpc"         mapstructure:"grpc"`
	GenericServerRunOptions *genericoptions.ServerRunOptions `json:"serving"      mapstructure:"serving"`
	ModelOptions            *genericoptions.ModelOptions     `json:"models"       mapstructure:"models"`
	ToolsOptions            *ToolsOptions                    `json:"tools"        mapstructure:"tools"`
	StoreOptions            *StoreOptions                    `json:"store"        mapstructure:"store"`
	SpeechOptions           *SpeechOptions                   `json:"speech"       mapstructure:"speech"`
	GatewayOptions          *GatewayOptions                  `json:"gateway"      mapstructure:"gateway"`
	MCPOptions              *MCPOptions                      `json:"mcp"          mapstructure:"mcp"`
	OrchestratorOptions     *OrchestratorOptions             `json:"orchestrator" mapstructure:"orchestrator"`
}

func (o *Options) Flags() (fss cliflag.NamedFlagSets) {
	o.GRPCOptions.AddFlags(fss.FlagSet("grpc"))
	o.GenericServerRunOptions.AddFlags(fss.FlagSet("generic"))
	o.ModelOptions.AddFlags(fss.FlagSet("models"))
	o.ToolsOptions.AddFlags(fss.FlagSet("tools"))
	o.StoreOptions.AddFlags(fss.FlagSet("store"))
	o.SpeechOptions.AddFlags(fss.FlagSet("speech"))
	o.GatewayOptions.AddFlags(fss.FlagSet("gateway"))
	o.MCPOptions.AddFlags(fss.FlagSet("mcp"))
	o.OrchestratorOptions.AddFlags(fss.FlagSet("orchestrator"))
	return fss
}

func NewOptions() *Options {
	return &Options{
		GRPCOptions:             genericoptions.NewGRPCOptions(),
		GenericServerRunOptions: genericoptions.NewServerRunOptions(),
		ModelOptions:            genericoptions.NewModelOptions(),
		ToolsOptions:            NewToolsOptions(),
		StoreOptions:            NewStoreOptions(),
		SpeechOptions:           NewSpeechOptions(),
		GatewayOptions:          NewGatewayOptions(),
		MCPOptions:              NewMCPOptions(),
		OrchestratorOptions:     NewOrchestratorOptions(),
	}
}

// ApplyTo applies the run options to the method receiver and returns self.
func (o *Options) ApplyTo(c *server.Config) error {
	return o.GenericServerRunOptions.ApplyTo(c)
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)

	return string(data)
}

// Complete set default Options.
func (o *Options) Complete() error {
	return nil
}

// Validate checks Options and all contained options.
func (o *Options) Validate() []error {
	var errs []error

	errs = append(errs, o.GenericServerRunOptions.Validate()...)
	errs = append(errs, o.GRPCOptions.Validate()...)
	errs = append(errs, o.ModelOptions.Validate()...)
	errs = append(errs, o.ToolsOptions.Validate()...)
	errs = append(errs, o.StoreOptions.Validate()...)
	errs = append(errs, o.SpeechOptions.Validate()...)
	errs = append(errs, o.GatewayOptions.Validate()...)
	errs = append(errs, o.MCPOptions.Validate()...)
	errs = append(errs, o.OrchestratorOptions.Validate()...)

	return errs
}
