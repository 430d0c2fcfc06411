package main

import (
	"os"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/app"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/cli"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/config"
	"github.com/ishtiakalhumaidi/bidstock-client/utils"
)

func main() {
	if os.Getenv("BIDSTOCK_VERBOSE") != "" {
		utils.SetVerbose()
	}

	cfg := config.Load()
	os.Exit(cli.Run(app.New(cfg), os.Stdout, os.Args[1:]))
}
