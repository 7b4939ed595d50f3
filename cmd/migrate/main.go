package main

import (
	"os"

	"meetingbook/config"
	"meetingbook/helper"
	"meetingbook/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, drop or step-up")
	}

	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	action := helper.Action(os.Args[1])

	switch action {
	case helper.ActionUp, helper.ActionDown, helper.ActionDrop, helper.ActionStepUp:
		if err := helper.Runner(cfg, action); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	default:
		log.Fatal().Str("action", os.Args[1]).Msg("Invalid action. Use 'up', 'down', 'drop' or 'step-up'")
	}
}
