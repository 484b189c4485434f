// Package engagement aggregates time-windowed views, revenue, and booking
// outcomes into a single snapshot. Pure: record fetching belongs to the
// caller, and nothing here divides by zero.
package engagement

import (
	"math"

	contractx "github.com/tidyhive/success-coach/coach/contract"
)

// Aggregate computes the engagement snapshot from already-fetched records.
func Aggregate(views contractx.ViewCounts, bookings []contractx.BookingRecord, w contractx.Windows) contractx.EngagementSnapshot {
	snap := contractx.EngagementSnapshot{
		ViewsThisWeek: views.ThisWeek,
		ViewsLastWeek: views.LastWeek,
		Trend:         trend(views.ThisWeek, views.LastWeek),
		PercentChange: percentChange(views.ThisWeek, views.LastWeek),
	}

	var accepted, declined, completed, cancelled int
	for _, b := range bookings {
		switch b.Status {
		case contractx.BookingAccepted:
			accepted++
		case contractx.BookingDeclined:
			declined++
		case contractx.BookingCancelled:
			cancelled++
		case contractx.BookingCompleted:
			accepted++
			completed++
			snap.RevenueAllTime += b.Amount
			if !b.FinishedAt.Before(w.WeekAgo) && !b.FinishedAt.After(w.Now) {
				snap.RevenueThisWeek += b.Amount
			}
			if !b.FinishedAt.Before(w.TwoWeeksAgo) && b.FinishedAt.Before(w.WeekAgo) {
				snap.RevenuePriorWeek += b.Amount
			}
			if !b.FinishedAt.Before(w.MonthStart) && !b.FinishedAt.After(w.Now) {
				snap.RevenueMonthToDate += b.Amount
			}
		}
	}

	snap.CompletedBookings = completed
	if completed > 0 {
		snap.AveragePerBooking = round2(snap.RevenueAllTime / float64(completed))
	}
	snap.AcceptanceRate = rate(accepted, accepted+declined)
	snap.CompletionRate = rate(completed, completed+cancelled)

	return snap
}

func trend(current, prior int) contractx.Trend {
	switch {
	case current > prior:
		return contractx.TrendUp
	case current < prior:
		return contractx.TrendDown
	default:
		return contractx.TrendSame
	}
}

// percentChange keeps a meaningful signal when the prior window is empty:
// 100 when activity appeared from nothing, 0 when both windows are empty.
func percentChange(current, prior int) float64 {
	if prior == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round2(float64(current-prior) / float64(prior) * 100)
}

// rate defaults to 100 when no decided or finished items exist. That is a
// deliberate product policy, not an accident; see the aggregator tests.
func rate(part, whole int) float64 {
	if whole == 0 {
		return 100
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
