// Package tool registers the read operations the reasoning service may
// invoke during a conversation turn. Adding a tool is a registration, not a
// switch branch, and nothing a handler does can escape the catalog as a Go
// error: every failure becomes a structured payload the model can read.
package tool

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/tidyhive/success-coach/coach/contract"
	engagementx "github.com/tidyhive/success-coach/coach/engagement"
	healthx "github.com/tidyhive/success-coach/coach/health"
	progressionx "github.com/tidyhive/success-coach/coach/progression"
)

const (
	ToolProfileHealth   = "get_profile_health"
	ToolEngagementStats = "get_engagement_stats"
	ToolRevenueStats    = "get_revenue_stats"
	ToolProgression     = "get_progression"
)

// Handler executes one read operation for an actor.
type Handler func(ctx context.Context, actorID int64) (any, error)

// Descriptor is the schema contract sent to the reasoning service. All
// coaching tools take no arguments, but the input schema must still be a
// JSON-schema object so the service knows how to call them.
type Descriptor struct {
	Name           string
	Description    string
	InputSchema    map[string]any
	RequiresUnlock bool
}

type registration struct {
	Descriptor
	handler Handler
}

// Catalog maps tool names to handlers backed by the snapshot reader.
type Catalog struct {
	reader  contractx.SnapshotReader
	entries map[string]registration
	order   []string

	now func() contractx.Windows
}

func NewCatalog(reader contractx.SnapshotReader, now func() contractx.Windows) *Catalog {
	c := &Catalog{
		reader:  reader,
		entries: make(map[string]registration),
		now:     now,
	}

	c.register(Descriptor{
		Name:        ToolProfileHealth,
		Description: "Score the provider's profile from 0 to 100 with a per-dimension breakdown, suggestions, and an improvement checklist.",
		InputSchema: emptyObjectSchema(),
	}, c.profileHealth)

	c.register(Descriptor{
		Name:           ToolEngagementStats,
		Description:    "Fetch profile view counts for the last two weeks with trend direction and percent change.",
		InputSchema:    emptyObjectSchema(),
		RequiresUnlock: true,
	}, c.engagementStats)

	c.register(Descriptor{
		Name:           ToolRevenueStats,
		Description:    "Fetch revenue totals for the trailing week, prior week, current month, and all time, plus booking outcome rates.",
		InputSchema:    emptyObjectSchema(),
		RequiresUnlock: true,
	}, c.revenueStats)

	c.register(Descriptor{
		Name:           ToolProgression,
		Description:    "Report the provider's business progression stage, level, progress percentage, and recommended next step.",
		InputSchema:    emptyObjectSchema(),
		RequiresUnlock: true,
	}, c.progression)

	return c
}

func (c *Catalog) register(d Descriptor, h Handler) {
	c.entries[d.Name] = registration{Descriptor: d, handler: h}
	c.order = append(c.order, d.Name)
}

// ForActor returns the descriptors visible at the given unlock state, in
// stable registration order. Gating is decided once per conversation by the
// caller; it cannot change mid-turn.
func (c *Catalog) ForActor(unlocked bool) []Descriptor {
	out := make([]Descriptor, 0, len(c.order))
	for _, name := range c.order {
		entry := c.entries[name]
		if entry.RequiresUnlock && !unlocked {
			continue
		}
		out = append(out, entry.Descriptor)
	}
	return out
}

// Execute runs every requested tool call. Calls are independent reads, so
// they run concurrently; results come back in request order so the caller
// can correlate them with the originating call identifiers. A failing or
// panicking handler poisons only its own slot.
func (c *Catalog) Execute(ctx context.Context, unlocked bool, actorID int64, reqs []contractx.ToolRequest) []contractx.ToolResult {
	results := make([]contractx.ToolResult, len(reqs))

	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req contractx.ToolRequest) {
			defer wg.Done()
			results[i] = c.executeOne(ctx, unlocked, actorID, req)
		}(i, req)
	}
	wg.Wait()

	return results
}

func (c *Catalog) executeOne(ctx context.Context, unlocked bool, actorID int64, req contractx.ToolRequest) (result contractx.ToolResult) {
	result = contractx.ToolResult{Tool: req.Tool}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Int64("actor_id", actorID).Str("tool", req.Tool).Any("panic", r).Msg("tool handler panicked")
			result = contractx.ToolResult{Tool: req.Tool, Error: fmt.Sprintf("%s failed", req.Tool)}
		}
	}()

	entry, ok := c.entries[req.Tool]
	if !ok || (entry.RequiresUnlock && !unlocked) {
		result.Error = fmt.Sprintf("tool=%s is unavailable", req.Tool)
		return result
	}

	out, err := entry.handler(ctx, actorID)
	if err != nil {
		log.Error().Err(err).Int64("actor_id", actorID).Str("tool", req.Tool).Msg("tool handler failed")
		result.Error = fmt.Sprintf("%s failed", req.Tool)
		return result
	}

	result.Result = out
	return result
}

func (c *Catalog) profileHealth(ctx context.Context, actorID int64) (any, error) {
	snap, err := c.reader.ActorSnapshot(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return healthx.Score(snap), nil
}

func (c *Catalog) engagementStats(ctx context.Context, actorID int64) (any, error) {
	stats, err := c.aggregate(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"views_this_week": stats.ViewsThisWeek,
		"views_last_week": stats.ViewsLastWeek,
		"trend":           stats.Trend,
		"percent_change":  stats.PercentChange,
	}, nil
}

func (c *Catalog) revenueStats(ctx context.Context, actorID int64) (any, error) {
	stats, err := c.aggregate(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"revenue_this_week":     stats.RevenueThisWeek,
		"revenue_prior_week":    stats.RevenuePriorWeek,
		"revenue_month_to_date": stats.RevenueMonthToDate,
		"revenue_all_time":      stats.RevenueAllTime,
		"completed_bookings":    stats.CompletedBookings,
		"average_per_booking":   stats.AveragePerBooking,
		"acceptance_rate":       stats.AcceptanceRate,
		"completion_rate":       stats.CompletionRate,
	}, nil
}

func (c *Catalog) progression(ctx context.Context, actorID int64) (any, error) {
	snap, err := c.reader.ActorSnapshot(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return progressionx.Track(snap.Affiliation, snap.ApprovedServiceCount), nil
}

func (c *Catalog) aggregate(ctx context.Context, actorID int64) (contractx.EngagementSnapshot, error) {
	w := c.now()
	views, err := c.reader.ViewCounts(ctx, actorID, w)
	if err != nil {
		return contractx.EngagementSnapshot{}, err
	}
	bookings, err := c.reader.Bookings(ctx, actorID)
	if err != nil {
		return contractx.EngagementSnapshot{}, err
	}
	return engagementx.Aggregate(views, bookings, w), nil
}

func emptyObjectSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []string{},
	}
}
