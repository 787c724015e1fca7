package main

import (
	"github.com/apex-mentoria/apex_api/middleware"
	"github.com/apex-mentoria/apex_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using system environment")
	}

	ctx, err := context.NewCtx(
		&services.SqlService{},
		&services.RedisService{},
		&services.MinIOService{},
		&services.PushService{},

		&services.JWTService{},
		&middleware.AuthMiddleware{},

		&services.ProgressionService{},
		&services.OnboardingService{},
		&services.DealService{},
		&services.OfferService{},
		&services.ReminderService{},
		&services.MediaService{},

		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
