// Package orchestrator runs the bounded tool-use loop between the coaching
// engine and the external reasoning service. The loop is sequential across
// iterations, tool calls within one iteration run concurrently, and a hard
// iteration cap guarantees termination even when the service misbehaves.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"

	contractx "github.com/tidyhive/success-coach/coach/contract"
	toolx "github.com/tidyhive/success-coach/coach/tool"
)

// declineMessage is where every failure path converges. Raw errors never
// cross the HTTP boundary.
const declineMessage = "Sorry, I can't help with that right now. Please try again in a moment."

// fallbackMessage covers data-layer failures before the loop even starts.
const fallbackMessage = "I couldn't load your account data just now. Please try again shortly."

type Config struct {
	Model         string  `envconfig:"MODEL" split_words:"true"`
	MaxIterations int     `envconfig:"MAX_ITERATIONS" split_words:"true" default:"6"`
	HistoryWindow int     `envconfig:"HISTORY_WINDOW" split_words:"true" default:"12"`
	MaxTokens     int64   `envconfig:"MAX_TOKENS" split_words:"true" default:"0"`
	Temperature   float64 `envconfig:"TEMPERATURE" split_words:"true" default:"0"`
}

// CompletionService is the slice of the OpenAI SDK the loop depends on.
// *openai.ChatCompletionService satisfies it; tests inject fakes.
type CompletionService interface {
	New(ctx context.Context, params openaisdk.ChatCompletionNewParams, opts ...option.RequestOption) (*openaisdk.ChatCompletion, error)
}

type Orchestrator struct {
	completions CompletionService
	catalog     *toolx.Catalog
	reader      contractx.SnapshotReader
	cfg         Config
}

func New(completions CompletionService, catalog *toolx.Catalog, reader contractx.SnapshotReader, cfg Config) (*Orchestrator, error) {
	if completions == nil {
		return nil, errors.New("completion service is required")
	}
	if catalog == nil {
		return nil, errors.New("tool catalog is required")
	}
	if reader == nil {
		return nil, errors.New("snapshot reader is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("model is required")
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 6
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 12
	}

	return &Orchestrator{
		completions: completions,
		catalog:     catalog,
		reader:      reader,
		cfg:         cfg,
	}, nil
}

// Run executes one conversation turn: window the history, expose the gated
// tool list, execute requested tool calls, and repeat until the model
// produces plain text or the iteration cap trips.
func (o *Orchestrator) Run(ctx context.Context, actorID int64, turns []contractx.ChatTurn) (contractx.ChatResult, error) {
	if err := validateTurns(turns); err != nil {
		return contractx.ChatResult{}, err
	}

	snapshot, err := o.reader.ActorSnapshot(ctx, actorID)
	if err != nil {
		log.Error().Err(err).Int64("actor_id", actorID).Msg("snapshot read failed")
		return contractx.ChatResult{Response: fallbackMessage}, nil
	}

	// Gating is computed once per conversation and held for the whole turn.
	unlocked := snapshot.Unlocked()
	toolParams := toToolParams(o.catalog.ForActor(unlocked))

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, o.cfg.HistoryWindow+1)
	messages = append(messages, openaisdk.SystemMessage(systemPrompt()))
	for _, turn := range windowTurns(turns, o.cfg.HistoryWindow) {
		if turn.Role == contractx.RoleAssistant {
			messages = append(messages, openaisdk.AssistantMessage(turn.Content))
		} else {
			messages = append(messages, openaisdk.UserMessage(turn.Content))
		}
	}

	var toolsUsed []string
	seen := make(map[string]struct{})

	for iteration := 0; iteration < o.cfg.MaxIterations; iteration++ {
		// Cancellation is honored between iterations; a tool call already
		// in flight is left to finish.
		if ctx.Err() != nil {
			log.Warn().Int64("actor_id", actorID).Msg("turn cancelled between iterations")
			return declineResult(toolsUsed, unlocked), nil
		}

		params := openaisdk.ChatCompletionNewParams{
			Model:    openaisdk.ChatModel(o.cfg.Model),
			Messages: messages,
			Tools:    toolParams,
		}
		if o.cfg.MaxTokens > 0 {
			params.MaxCompletionTokens = openaisdk.Int(o.cfg.MaxTokens)
		}
		if o.cfg.Temperature > 0 {
			params.Temperature = openaisdk.Float(o.cfg.Temperature)
		}

		completion, err := o.completions.New(ctx, params)
		if err != nil {
			log.Error().Err(err).Int64("actor_id", actorID).Int("iteration", iteration).Msg("completion failed")
			return declineResult(toolsUsed, unlocked), nil
		}
		if completion == nil || len(completion.Choices) == 0 {
			log.Error().Int64("actor_id", actorID).Msg("completion returned no choices")
			return declineResult(toolsUsed, unlocked), nil
		}

		message := completion.Choices[0].Message
		if len(message.ToolCalls) == 0 {
			return contractx.ChatResult{
				Response:  message.Content,
				ToolsUsed: toolsUsed,
				Unlocked:  unlocked,
			}, nil
		}

		messages = append(messages, message.ToParam())

		reqs := make([]contractx.ToolRequest, 0, len(message.ToolCalls))
		callIDs := make([]string, 0, len(message.ToolCalls))
		for _, call := range message.ToolCalls {
			reqs = append(reqs, contractx.ToolRequest{
				Tool: call.Function.Name,
				Args: parseArgs(call.Function.Arguments),
			})
			callIDs = append(callIDs, call.ID)
		}

		results := o.catalog.Execute(ctx, unlocked, actorID, reqs)
		for i, res := range results {
			messages = append(messages, openaisdk.ToolMessage(marshalResult(res), callIDs[i]))
			if _, ok := seen[res.Tool]; !ok {
				seen[res.Tool] = struct{}{}
				toolsUsed = append(toolsUsed, res.Tool)
			}
		}
	}

	log.Error().Int64("actor_id", actorID).Int("cap", o.cfg.MaxIterations).Msg("iteration cap exceeded")
	return declineResult(toolsUsed, unlocked), nil
}

func validateTurns(turns []contractx.ChatTurn) error {
	if len(turns) == 0 {
		return fmt.Errorf("%w: at least one message is required", contractx.ErrValidation)
	}
	for _, turn := range turns {
		if turn.Role != contractx.RoleUser && turn.Role != contractx.RoleAssistant {
			return fmt.Errorf("%w: unsupported role %q", contractx.ErrValidation, turn.Role)
		}
	}
	return nil
}

func windowTurns(turns []contractx.ChatTurn, window int) []contractx.ChatTurn {
	if len(turns) <= window {
		return turns
	}
	return turns[len(turns)-window:]
}

func toToolParams(descriptors []toolx.Descriptor) []openaisdk.ChatCompletionToolParam {
	params := make([]openaisdk.ChatCompletionToolParam, 0, len(descriptors))
	for _, d := range descriptors {
		params = append(params, openaisdk.ChatCompletionToolParam{
			Function: openaisdk.FunctionDefinitionParam{
				Name:        d.Name,
				Description: openaisdk.String(d.Description),
				Parameters:  openaisdk.FunctionParameters(d.InputSchema),
			},
		})
	}
	return params
}

// parseArgs tolerates malformed argument payloads: coaching tools take no
// arguments, so a bad payload degrades to an empty arg map instead of
// failing the call.
func parseArgs(raw string) map[string]any {
	args := map[string]any{}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return args
	}
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		log.Warn().Str("args", trimmed).Msg("unparseable tool arguments")
	}
	return args
}

func marshalResult(res contractx.ToolResult) string {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Sprintf(`{"tool":%q,"error":%q}`, res.Tool, res.Tool+" failed")
	}
	return string(payload)
}

func declineResult(toolsUsed []string, unlocked bool) contractx.ChatResult {
	return contractx.ChatResult{
		Response:  declineMessage,
		ToolsUsed: toolsUsed,
		Unlocked:  unlocked,
	}
}
