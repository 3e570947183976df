package herald

import (
	"github.com/kiosk404/herald/internal/herald/config"
)

// Run runs the specified herald server. This should never exit.
func Run(cfg *config.Config) error {
	server, err := createAPIServer(cfg)
	if err != nil {
		return err
	}

	return server.PrepareRun().Run()
}
