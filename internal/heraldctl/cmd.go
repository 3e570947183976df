package heraldctl

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	genericapiserver "github.com/kiosk404/herald/internal/pkg/server"
	"github.com/kiosk404/herald/pkg/utils/cliflag"
	"github.com/kiosk404/herald/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagConfig  = "config"
	flagServer  = "server"
	flagUser    = "user"
	flagToken   = "token"
	flagTimeout = "timeout"
)

// GlobalOptions are shared by every heraldctl subcommand.
type GlobalOptions struct {
	Server  string
	User    string
	Token   string
	Timeout time.Duration

	In  io.Reader
	Out io.Writer
	Err io.Writer

	httpClient *http.Client
}

func (g *GlobalOptions) Client() *Client {
	return NewClient(g.Server, g.User, g.Token, g.httpClient)
}

// NewDefaultHeraldCtlCommand creates the `heraldctl` command wired to the
// process streams.
func NewDefaultHeraldCtlCommand() *cobra.Command {
	return NewHeraldCtlCommand(os.Stdin, os.Stdout, os.Stderr)
}

func NewHeraldCtlCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	g := &GlobalOptions{In: in, Out: out, Err: errOut}

	cmds := &cobra.Command{
		Use:   "heraldctl",
		Short: "heraldctl talks to a running herald server",
		Long: heredoc.Doc(`
			heraldctl is the command line client for herald, the personal
			assistant query engine. It sends queries, opens interactive
			conversations and inspects tools and sessions.

			Global flags can also be set in heraldctl.yaml (./, ~/.herald or
			/etc/herald) or through HERALD_SERVER, HERALD_USER,
			HERALD_GATEWAY_TOKEN and HERALD_TIMEOUT.
		`),
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(*cobra.Command, []string) {
			g.Server = viper.GetString(flagServer)
			g.User = viper.GetString(flagUser)
			g.Token = viper.GetString(flagToken)
			g.Timeout = viper.GetDuration(flagTimeout)
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	cmds.SetIn(in)
	cmds.SetOut(out)
	cmds.SetErr(errOut)

	flags := cmds.PersistentFlags()
	flags.SetNormalizeFunc(cliflag.WordSepNormalizeFunc)
	flags.String(flagConfig, "", "Path to a heraldctl.yaml config file")
	flags.String(flagServer, "http://127.0.0.1:11789", "Herald HTTP address")
	flags.String(flagUser, "", "User ID sent as X-User-ID")
	flags.String(flagToken, "", "Bearer token for the gateway")
	flags.Duration(flagTimeout, 2*time.Minute, "Per-request timeout")

	_ = viper.BindPFlags(flags)
	cobra.OnInitialize(func() {
		genericapiserver.LoadConfig(viper.GetString(flagConfig), "heraldctl")
		_ = viper.BindEnv(flagToken, "HERALD_GATEWAY_TOKEN")
	})

	cmds.AddCommand(
		NewCmdAsk(g),
		NewCmdChat(g),
		NewCmdTools(g),
		NewCmdSessions(g),
	)

	return cmds
}
