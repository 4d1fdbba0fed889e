package main

import (
	"os"
	"taskapp/config"
	"taskapp/helper"
	"taskapp/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, drop or step-up")
	}

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	action := os.Args[1]

	switch action {
	case helper.ActionUp, helper.ActionDown, helper.ActionDrop, helper.ActionStepUp:
		if err := helper.Runner(cfg, action); err != nil {
			log.Fatal().Err(err).Str("action", action).Msg("Migration failed")
		}
	default:
		log.Fatal().Str("action", action).Msg("Invalid action. Use 'up', 'down', 'drop' or 'step-up'")
	}
}
