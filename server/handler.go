package server

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	contractx "github.com/tidyhive/success-coach/coach/contract"
)

type coachService interface {
	Run(ctx context.Context, actorID int64, turns []contractx.ChatTurn) (contractx.ChatResult, error)
}

type greetingService interface {
	Greet(ctx context.Context, actorID int64) (contractx.GreetingResult, error)
}

type CoachHandler struct {
	coach   coachService
	greeter greetingService
}

func NewCoachHandler(coach coachService, greeter greetingService) *CoachHandler {
	return &CoachHandler{coach: coach, greeter: greeter}
}

type chatRequest struct {
	Messages []contractx.ChatTurn `json:"messages"`
}

func (h *CoachHandler) Chat(c *fiber.Ctx) error {
	actorID, ok := c.Locals("actor_id").(int64)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing session",
		})
	}

	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := h.coach.Run(c.Context(), actorID, req.Messages)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid message window",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	return c.JSON(result)
}

func (h *CoachHandler) Greeting(c *fiber.Ctx) error {
	actorID, ok := c.Locals("actor_id").(int64)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing session",
		})
	}

	result, err := h.greeter.Greet(c.Context(), actorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	return c.JSON(result)
}
