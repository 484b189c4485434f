package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	orchestratorx "github.com/tidyhive/success-coach/coach/orchestrator"
	storex "github.com/tidyhive/success-coach/coach/store"
	"github.com/tidyhive/success-coach/server"

	configx "github.com/tidyhive/success-coach/pkg/config"
	_ "github.com/tidyhive/success-coach/pkg/logger/autoload"
	openrouterx "github.com/tidyhive/success-coach/pkg/openrouter"
)

func main() {
	serverCfg := configx.MustNew[server.Config]("SERVER")
	storeCfg := configx.MustNew[storex.Config]("DB")
	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	coachCfg := configx.MustNew[orchestratorx.Config]("COACH")
	if coachCfg.Model == "" {
		coachCfg.Model = openRouterCfg.Model
	}
	if coachCfg.MaxTokens == 0 {
		coachCfg.MaxTokens = openRouterCfg.MaxCompletionToken
	}
	if coachCfg.Temperature == 0 {
		coachCfg.Temperature = openRouterCfg.Temperature
	}

	db := storex.Open(*storeCfg)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	// Built once at startup and shared by every request.
	llmClient := openrouterx.MustNewClient(*openRouterCfg)

	app := fiber.New()
	app.Use(recover.New())

	if err := server.RegisterRoutes(app, *serverCfg, db, llmClient, *coachCfg); err != nil {
		log.Fatal().Err(err).Msg("register routes")
	}

	log.Info().Str("port", serverCfg.Port).Msg("success coach listening")
	if err := app.Listen(":" + serverCfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
