// Package health derives the profile health score from an actor snapshot.
// Scoring is pure and deterministic: same snapshot, same output.
package health

import (
	"fmt"
	"sort"

	contractx "github.com/tidyhive/success-coach/coach/contract"
)

// Per-dimension point allotments. They sum to 100.
const (
	maxPhoto     = 20
	maxBio       = 20
	maxAreas     = 15
	maxRate      = 10
	maxReviews   = 15
	maxLanguages = 10
	maxCalendar  = 10
)

// Bio quality thresholds, in characters.
const (
	bioOkChars   = 50
	bioGoodChars = 100
)

// Competitive hourly-rate band, bounds inclusive.
const (
	rateBandLow  = 25.0
	rateBandHigh = 150.0
)

var priorityRank = map[contractx.ChecklistPriority]int{
	contractx.PriorityHigh:   0,
	contractx.PriorityMedium: 1,
	contractx.PriorityLow:    2,
}

// Score evaluates all seven dimensions against their threshold policies and
// builds the checklist from the same thresholds, so the two can never
// disagree.
func Score(snapshot contractx.ActorSnapshot) contractx.ProfileHealth {
	dims := []scoredDimension{
		scorePhoto(snapshot),
		scoreBio(snapshot),
		scoreAreas(snapshot),
		scoreRate(snapshot),
		scoreReviews(snapshot),
		scoreLanguages(snapshot),
		scoreCalendar(snapshot),
	}

	total := 0
	results := make([]contractx.DimensionResult, 0, len(dims))
	checklist := make([]contractx.ChecklistItem, 0, len(dims))
	for _, d := range dims {
		total += d.result.Points
		results = append(results, d.result)
		checklist = append(checklist, contractx.ChecklistItem{
			Item:     d.checklistItem,
			Done:     d.result.Points == d.result.Max,
			Priority: d.priority,
		})
	}

	sortChecklist(checklist)

	return contractx.ProfileHealth{
		Score:      total,
		Dimensions: results,
		Checklist:  checklist,
	}
}

// Incomplete items first, then high before medium before low. The sort is
// stable so ties keep dimension order.
func sortChecklist(items []contractx.ChecklistItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Done != items[j].Done {
			return !items[i].Done
		}
		return priorityRank[items[i].Priority] < priorityRank[items[j].Priority]
	})
}

type scoredDimension struct {
	result        contractx.DimensionResult
	checklistItem string
	priority      contractx.ChecklistPriority
}

func scorePhoto(s contractx.ActorSnapshot) scoredDimension {
	d := scoredDimension{
		checklistItem: "Add a profile photo",
		priority:      contractx.PriorityHigh,
		result:        contractx.DimensionResult{Name: "photo", Max: maxPhoto},
	}
	if s.HasPhoto {
		d.result.Points = maxPhoto
		d.result.Detail = "photo uploaded"
		return d
	}
	d.result.Detail = "no photo"
	d.result.Suggestion = "Profiles with a photo get booked far more often. Upload a clear, friendly headshot."
	return d
}

func scoreBio(s contractx.ActorSnapshot) scoredDimension {
	d := scoredDimension{
		checklistItem: "Write a detailed bio",
		priority:      contractx.PriorityHigh,
		result:        contractx.DimensionResult{Name: "bio", Max: maxBio},
	}
	length := len(s.Bio)
	d.result.Detail = fmt.Sprintf("%d characters", length)
	switch {
	case length >= bioGoodChars:
		d.result.Points = maxBio
	case length >= bioOkChars:
		d.result.Points = maxBio / 2
		d.result.Suggestion = "Your bio is a good start. Expand it past 100 characters with what makes your service stand out."
	default:
		d.result.Suggestion = "Write at least 100 characters about your experience and what clients can expect."
	}
	return d
}

func scoreAreas(s contractx.ActorSnapshot) scoredDimension {
	d := scoredDimension{
		checklistItem: "Cover more service areas",
		priority:      contractx.PriorityMedium,
		result:        contractx.DimensionResult{Name: "coverage_areas", Max: maxAreas},
	}
	d.result.Detail = fmt.Sprintf("%d areas", s.ServiceAreaCount)
	switch {
	case s.ServiceAreaCount >= 4:
		d.result.Points = maxAreas
	case s.ServiceAreaCount >= 2:
		d.result.Points = 8
		d.result.Suggestion = "Adding one or two more coverage areas widens the pool of clients who can find you."
	default:
		d.result.Suggestion = "You only cover one area. Add the neighborhoods you can realistically travel to."
	}
	return d
}

func scoreRate(s contractx.ActorSnapshot) scoredDimension {
	d := scoredDimension{
		checklistItem: "Set a competitive rate",
		priority:      contractx.PriorityMedium,
		result:        contractx.DimensionResult{Name: "rate", Max: maxRate},
	}
	switch {
	case s.HourlyRate <= 0:
		d.result.Detail = "rate unset"
		d.result.Suggestion = "Set your hourly rate so clients can book you without asking first."
	case s.HourlyRate >= rateBandLow && s.HourlyRate <= rateBandHigh:
		d.result.Points = maxRate
		d.result.Detail = fmt.Sprintf("%.2f/hr", s.HourlyRate)
	default:
		d.result.Points = maxRate / 2
		d.result.Detail = fmt.Sprintf("%.2f/hr", s.HourlyRate)
		d.result.Suggestion = "Your rate sits outside the range most clients expect. Compare with similar providers nearby."
	}
	return d
}

func scoreReviews(s contractx.ActorSnapshot) scoredDimension {
	d := scoredDimension{
		checklistItem: "Collect client reviews",
		priority:      contractx.PriorityHigh,
		result:        contractx.DimensionResult{Name: "reviews", Max: maxReviews},
	}
	d.result.Detail = fmt.Sprintf("%d reviews", s.ReviewCount)
	switch {
	case s.ReviewCount >= 5:
		d.result.Points = maxReviews
	case s.ReviewCount >= 1:
		d.result.Points = 8
		d.result.Suggestion = "A few more reviews would help. Ask recent clients to leave one after each job."
	default:
		d.result.Suggestion = "You have no reviews yet. Your first review is the biggest trust signal a new profile can earn."
	}
	return d
}

func scoreLanguages(s contractx.ActorSnapshot) scoredDimension {
	d := scoredDimension{
		checklistItem: "List the languages you speak",
		priority:      contractx.PriorityLow,
		result:        contractx.DimensionResult{Name: "languages", Max: maxLanguages},
	}
	count := len(s.Languages)
	d.result.Detail = fmt.Sprintf("%d languages", count)
	switch {
	case count >= 3:
		d.result.Points = maxLanguages
	case count == 2:
		d.result.Points = maxLanguages / 2
		d.result.Suggestion = "Listing every language you speak helps clients who prefer them find you."
	default:
		d.result.Suggestion = "Add all the languages you can work in, even casually."
	}
	return d
}

func scoreCalendar(s contractx.ActorSnapshot) scoredDimension {
	d := scoredDimension{
		checklistItem: "Sync your calendar",
		priority:      contractx.PriorityMedium,
		result:        contractx.DimensionResult{Name: "calendar_sync", Max: maxCalendar},
	}
	if s.CalendarSynced {
		d.result.Points = maxCalendar
		d.result.Detail = "calendar synced"
		return d
	}
	d.result.Detail = "not synced"
	d.result.Suggestion = "Sync your calendar so clients only see slots you can actually take."
	return d
}
