package contract

import "time"

// AffiliationRole describes how an actor relates to a team, if at all.
type AffiliationRole string

const (
	AffiliationNone   AffiliationRole = ""
	AffiliationMember AffiliationRole = "member"
	AffiliationLeader AffiliationRole = "leader"
)

// ActorSnapshot is the read-only view of a provider account that every
// derived computation starts from. Owned by the identity subsystem; the
// coaching engine never mutates it.
type ActorSnapshot struct {
	ID                    int64           `json:"id"`
	DisplayName           string          `json:"display_name"`
	Slug                  string          `json:"slug"`
	Affiliation           AffiliationRole `json:"affiliation"`
	HourlyRate            float64         `json:"hourly_rate"` // 0 means unset
	Bio                   string          `json:"bio"`
	HasPhoto              bool            `json:"has_photo"`
	Languages             []string        `json:"languages"`
	Verified              bool            `json:"verified"`
	ServiceAreaCount      int             `json:"service_area_count"`
	CalendarSynced        bool            `json:"calendar_synced"`
	ReviewCount           int             `json:"review_count"`
	ApprovedServiceCount  int             `json:"approved_service_count"`
	CompletedBookingCount int             `json:"completed_booking_count"`
}

// Unlocked reports the sole progressive-capability gate: one completed
// booking, ever.
func (s ActorSnapshot) Unlocked() bool {
	return s.CompletedBookingCount > 0
}

type ChecklistPriority string

const (
	PriorityHigh   ChecklistPriority = "high"
	PriorityMedium ChecklistPriority = "medium"
	PriorityLow    ChecklistPriority = "low"
)

type ChecklistItem struct {
	Item     string            `json:"item"`
	Done     bool              `json:"done"`
	Priority ChecklistPriority `json:"priority"`
}

// DimensionResult is one scored profile dimension. Suggestion is empty when
// the dimension already earns full credit.
type DimensionResult struct {
	Name       string `json:"name"`
	Points     int    `json:"points"`
	Max        int    `json:"max"`
	Detail     string `json:"detail"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ProfileHealth is recomputed on every request and never persisted.
// Invariant: Score equals the sum of dimension points and stays in [0,100].
type ProfileHealth struct {
	Score      int               `json:"score"`
	Dimensions []DimensionResult `json:"dimensions"`
	Checklist  []ChecklistItem   `json:"checklist"`
}

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendSame Trend = "same"
)

// EngagementSnapshot aggregates trailing-window views, revenue, and booking
// outcome rates. Rates are percentages; zero-denominator rates default to
// 100 by policy.
type EngagementSnapshot struct {
	ViewsThisWeek      int     `json:"views_this_week"`
	ViewsLastWeek      int     `json:"views_last_week"`
	Trend              Trend   `json:"trend"`
	PercentChange      float64 `json:"percent_change"`
	RevenueThisWeek    float64 `json:"revenue_this_week"`
	RevenuePriorWeek   float64 `json:"revenue_prior_week"`
	RevenueMonthToDate float64 `json:"revenue_month_to_date"`
	RevenueAllTime     float64 `json:"revenue_all_time"`
	CompletedBookings  int     `json:"completed_bookings"`
	AveragePerBooking  float64 `json:"average_per_booking"`
	AcceptanceRate     float64 `json:"acceptance_rate"`
	CompletionRate     float64 `json:"completion_rate"`
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// BookingRecord is the slice of a booking the aggregator needs.
type BookingRecord struct {
	Amount     float64       `json:"amount"`
	Status     BookingStatus `json:"status"`
	FinishedAt time.Time     `json:"finished_at"`
}

// ViewCounts carries the two trailing 7-day profile view windows.
type ViewCounts struct {
	ThisWeek int `json:"this_week"`
	LastWeek int `json:"last_week"`
}

// Windows holds the boundaries the caller computes once per request.
type Windows struct {
	Now         time.Time
	WeekAgo     time.Time
	TwoWeeksAgo time.Time
	MonthStart  time.Time
}

// WindowsAt derives the standard aggregation boundaries from now.
func WindowsAt(now time.Time) Windows {
	return Windows{
		Now:         now,
		WeekAgo:     now.AddDate(0, 0, -7),
		TwoWeeksAgo: now.AddDate(0, 0, -14),
		MonthStart:  time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
	}
}

type Stage string

const (
	StageSolo           Stage = "solo"
	StageTeamMember     Stage = "team_member"
	StageTeamLeader     Stage = "team_leader"
	StageServicesActive Stage = "services_active"
)

// ProgressionState is always re-derived, never stored. NextStage and
// NextAction are empty at the terminal stage.
type ProgressionState struct {
	Stage       Stage  `json:"stage"`
	Level       int    `json:"level"`
	DisplayName string `json:"display_name"`
	Progress    int    `json:"progress"`
	NextStage   string `json:"next_stage,omitempty"`
	NextAction  string `json:"next_action,omitempty"`
}

// ChatTurn is one entry of the bounded conversation window.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolRequest is one tool invocation the reasoning service asked for.
type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the structured outcome of one tool invocation. Error is a
// payload the model can read, never a Go error.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ChatResult is what one orchestrated conversation turn produces.
type ChatResult struct {
	Response  string   `json:"response"`
	ToolsUsed []string `json:"tools_used"`
	Unlocked  bool     `json:"unlocked"`
}

// GreetingResult is the cheap first-paint payload; no model call behind it.
type GreetingResult struct {
	Greeting    string             `json:"greeting"`
	Stats       EngagementSnapshot `json:"stats"`
	Progression ProgressionState   `json:"progression"`
}
