package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"tsexp/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
