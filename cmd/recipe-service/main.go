package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Clinton-Cochrane/mobile-grocery/recipeservice"
)

func main() {
	if err := recipeservice.Run(); err != nil {
		log.Error().Err(err).Msg("recipe-service exited with error")
		os.Exit(1)
	}
}
