package herald

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/kiosk404/herald/internal/herald/config"
	"github.com/kiosk404/herald/internal/herald/options"
	"github.com/kiosk404/herald/pkg/app"
	"github.com/kiosk404/herald/pkg/logger"
)

const commandDesc = `Herald is a personal assistant server. It turns natural-language
queries into tool calls against your calendar, mail, drive and the web, chains
follow-up tools when a query asks for more, and answers in natural language
over HTTP, with optional speech input and output.`

// NewApp creates an App object with default parameters.
func NewApp(basename string) *app.App {
	opts := options.NewOptions()
	application := app.NewApp("herald",
		basename,
		app.WithOptions(opts),
		app.WithDescription(heredoc.Doc(commandDesc)),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)

	return application
}

func run(opts *options.Options) app.RunFunc {
	return func(basename string) error {
		logPath := fmt.Sprintf("logs/%s.log", basename)
		if err := logger.InitLog(logPath); err != nil {
			return err
		}
		defer logger.FlushLog()

		cfg, err := config.CreateConfigFromOptions(opts)
		if err != nil {
			return err
		}

		return Run(cfg)
	}
}
