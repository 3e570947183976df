package main

import (
	"os"

	"github.com/kiosk404/herald/internal/heraldctl"
)

func main() {
	command := heraldctl.NewDefaultHeraldCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
