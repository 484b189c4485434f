// Package greeting produces the initial coaching message without touching
// the reasoning service. One store read, a pure template pick, no loop.
package greeting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tidyhive/success-coach/coach/contract"
	engagementx "github.com/tidyhive/success-coach/coach/engagement"
	healthx "github.com/tidyhive/success-coach/coach/health"
	progressionx "github.com/tidyhive/success-coach/coach/progression"
)

const fallbackGreeting = "Welcome back! I couldn't load your stats just now, but I'm here whenever you want to talk about growing your business."

// View bands that pick the unlocked greeting template.
const busyWeekViews = 10

type Composer struct {
	reader contractx.SnapshotReader
	now    func() time.Time
}

func NewComposer(reader contractx.SnapshotReader) (*Composer, error) {
	if reader == nil {
		return nil, errors.New("snapshot reader is required")
	}
	return &Composer{reader: reader, now: time.Now}, nil
}

// Greet pulls health, engagement, and progression once and selects a
// template. Data-layer failures degrade to a generic greeting.
func (c *Composer) Greet(ctx context.Context, actorID int64) (contractx.GreetingResult, error) {
	snapshot, err := c.reader.ActorSnapshot(ctx, actorID)
	if err != nil {
		log.Error().Err(err).Int64("actor_id", actorID).Msg("greeting snapshot read failed")
		return contractx.GreetingResult{Greeting: fallbackGreeting}, nil
	}

	w := contractx.WindowsAt(c.now())
	views, err := c.reader.ViewCounts(ctx, actorID, w)
	if err != nil {
		log.Error().Err(err).Int64("actor_id", actorID).Msg("greeting view read failed")
		return contractx.GreetingResult{Greeting: fallbackGreeting}, nil
	}
	bookings, err := c.reader.Bookings(ctx, actorID)
	if err != nil {
		log.Error().Err(err).Int64("actor_id", actorID).Msg("greeting booking read failed")
		return contractx.GreetingResult{Greeting: fallbackGreeting}, nil
	}

	profile := healthx.Score(snapshot)
	stats := engagementx.Aggregate(views, bookings, w)
	state := progressionx.Track(snapshot.Affiliation, snapshot.ApprovedServiceCount)

	return contractx.GreetingResult{
		Greeting:    Compose(snapshot, profile, stats, state),
		Stats:       stats,
		Progression: state,
	}, nil
}

// Compose is the pure template pick, keyed on unlock state and weekly view
// bands.
func Compose(snapshot contractx.ActorSnapshot, profile contractx.ProfileHealth, stats contractx.EngagementSnapshot, state contractx.ProgressionState) string {
	name := snapshot.DisplayName
	if name == "" {
		name = "there"
	}

	if !snapshot.Unlocked() {
		if profile.Score < 70 {
			next := "completing your profile"
			if len(profile.Checklist) > 0 && !profile.Checklist[0].Done {
				next = firstStep(profile.Checklist[0])
			}
			return fmt.Sprintf("Hi %s! Your profile is at %d%%. The fastest way to your first booking is %s — want to work on that together?", name, profile.Score, next)
		}
		return fmt.Sprintf("Hi %s! Your profile looks strong at %d%%. You're ready for your first booking — ask me how to get noticed by more clients.", name, profile.Score)
	}

	switch {
	case stats.ViewsThisWeek == 0:
		return fmt.Sprintf("Welcome back, %s. It's been a quiet week for profile views — let's talk about how to change that.", name)
	case stats.ViewsThisWeek < busyWeekViews:
		return fmt.Sprintf("Welcome back, %s! You had %d profile views this week. %s", name, stats.ViewsThisWeek, nextActionLine(state))
	case stats.Trend == contractx.TrendUp:
		return fmt.Sprintf("Great week, %s! %d profile views, up %.0f%% on last week. %s", name, stats.ViewsThisWeek, stats.PercentChange, nextActionLine(state))
	default:
		return fmt.Sprintf("Welcome back, %s! You had %d profile views this week. Ask me about your stats or what to improve next.", name, stats.ViewsThisWeek)
	}
}

func firstStep(item contractx.ChecklistItem) string {
	return fmt.Sprintf("to %s", lowerFirst(item.Item))
}

func nextActionLine(state contractx.ProgressionState) string {
	if state.NextAction == "" {
		return "Ask me about your stats or what to improve next."
	}
	return state.NextAction
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
