package server

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	openaisdk "github.com/openai/openai-go"
	"github.com/uptrace/bun"

	contractx "github.com/tidyhive/success-coach/coach/contract"
	greetingx "github.com/tidyhive/success-coach/coach/greeting"
	orchestratorx "github.com/tidyhive/success-coach/coach/orchestrator"
	storex "github.com/tidyhive/success-coach/coach/store"
	toolx "github.com/tidyhive/success-coach/coach/tool"
)

type Config struct {
	Port      string `envconfig:"PORT" split_words:"true" default:"8080"`
	JWTSecret string `envconfig:"JWT_SECRET" split_words:"true" required:"true"`
}

// RegisterRoutes wires the store, catalog, orchestrator, and composer into
// the coaching endpoints.
func RegisterRoutes(app *fiber.App, cfg Config, db *bun.DB, llm *openaisdk.Client, coachCfg orchestratorx.Config) error {
	reader := storex.NewReader(db)
	catalog := toolx.NewCatalog(reader, func() contractx.Windows {
		return contractx.WindowsAt(time.Now())
	})

	orchestrator, err := orchestratorx.New(&llm.Chat.Completions, catalog, reader, coachCfg)
	if err != nil {
		return fmt.Errorf("build orchestrator: %w", err)
	}
	composer, err := greetingx.NewComposer(reader)
	if err != nil {
		return fmt.Errorf("build greeting composer: %w", err)
	}

	handler := NewCoachHandler(orchestrator, composer)

	api := app.Group("/api/coach", AuthRequired(cfg.JWTSecret))
	api.Post("/chat", handler.Chat)
	api.Get("/greeting", handler.Greeting)

	return nil
}
