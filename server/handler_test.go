package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	contractx "github.com/tidyhive/success-coach/coach/contract"
	tokenx "github.com/tidyhive/success-coach/pkg/token"
)

const testSecret = "test-secret"

type fakeCoach struct {
	result contractx.ChatResult
	err    error
	gotID  int64
}

func (f *fakeCoach) Run(ctx context.Context, actorID int64, turns []contractx.ChatTurn) (contractx.ChatResult, error) {
	f.gotID = actorID
	if f.err != nil {
		return contractx.ChatResult{}, f.err
	}
	return f.result, nil
}

type fakeGreeter struct {
	result contractx.GreetingResult
	err    error
}

func (f *fakeGreeter) Greet(ctx context.Context, actorID int64) (contractx.GreetingResult, error) {
	if f.err != nil {
		return contractx.GreetingResult{}, f.err
	}
	return f.result, nil
}

func testApp(coach *fakeCoach, greeter *fakeGreeter) *fiber.App {
	app := fiber.New()
	handler := NewCoachHandler(coach, greeter)
	api := app.Group("/api/coach", AuthRequired(testSecret))
	api.Post("/chat", handler.Chat)
	api.Get("/greeting", handler.Greeting)
	return app
}

func bearerFor(t *testing.T, actorID string) string {
	t.Helper()
	signed, err := tokenx.Generate(actorID, "provider", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return "Bearer " + signed
}

func TestChatHappyPath(t *testing.T) {
	t.Parallel()

	coach := &fakeCoach{result: contractx.ChatResult{
		Response:  "Add a photo first.",
		ToolsUsed: []string{"get_profile_health"},
		Unlocked:  false,
	}}
	app := testApp(coach, &fakeGreeter{})

	body := `{"messages":[{"role":"user","content":"how is my profile?"}]}`
	req := httptest.NewRequest("POST", "/api/coach/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, "42"))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if coach.gotID != 42 {
		t.Fatalf("actor id must come from the session token, got %d", coach.gotID)
	}

	var out contractx.ChatResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Response != "Add a photo first." {
		t.Fatalf("unexpected response: %q", out.Response)
	}
	if len(out.ToolsUsed) != 1 {
		t.Fatalf("unexpected tools used: %v", out.ToolsUsed)
	}
}

func TestChatRequiresAuth(t *testing.T) {
	t.Parallel()

	app := testApp(&fakeCoach{}, &fakeGreeter{})

	req := httptest.NewRequest("POST", "/api/coach/chat", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestChatRejectsMalformedBearer(t *testing.T) {
	t.Parallel()

	app := testApp(&fakeCoach{}, &fakeGreeter{})

	req := httptest.NewRequest("POST", "/api/coach/chat", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token abc")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestChatValidationErrorIsBadRequest(t *testing.T) {
	t.Parallel()

	coach := &fakeCoach{err: contractx.ErrValidation}
	app := testApp(coach, &fakeGreeter{})

	req := httptest.NewRequest("POST", "/api/coach/chat", strings.NewReader(`{"messages":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, "42"))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestChatInternalErrorIsOpaque(t *testing.T) {
	t.Parallel()

	coach := &fakeCoach{err: errors.New("pgdriver: connection refused")}
	app := testApp(coach, &fakeGreeter{})

	body := `{"messages":[{"role":"user","content":"hi"}]}`
	req := httptest.NewRequest("POST", "/api/coach/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, "42"))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out["error"], "pgdriver") {
		t.Fatalf("raw error must not leak: %q", out["error"])
	}
}

func TestGreetingHappyPath(t *testing.T) {
	t.Parallel()

	greeter := &fakeGreeter{result: contractx.GreetingResult{
		Greeting: "Welcome back, Ada!",
		Progression: contractx.ProgressionState{
			Stage: contractx.StageTeamLeader,
			Level: 3,
		},
	}}
	app := testApp(&fakeCoach{}, greeter)

	req := httptest.NewRequest("GET", "/api/coach/greeting", nil)
	req.Header.Set("Authorization", bearerFor(t, "7"))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out contractx.GreetingResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Greeting != "Welcome back, Ada!" {
		t.Fatalf("unexpected greeting: %q", out.Greeting)
	}
	if out.Progression.Level != 3 {
		t.Fatalf("unexpected progression: %+v", out.Progression)
	}
}

func TestNonNumericTokenSubjectRejected(t *testing.T) {
	t.Parallel()

	app := testApp(&fakeCoach{}, &fakeGreeter{})

	req := httptest.NewRequest("GET", "/api/coach/greeting", nil)
	req.Header.Set("Authorization", bearerFor(t, "not-a-number"))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
