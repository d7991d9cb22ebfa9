package main

import (
	"os"

	"github.com/rs/zerolog"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		logger.Fatal().Err(err).Msg("pageq")
	}
}
