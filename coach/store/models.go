// Package store is the read-only Postgres layer behind the coaching engine.
// The marketplace owns these tables; this package only ever selects.
package store

import (
	"time"

	"github.com/uptrace/bun"
)

type Provider struct {
	bun.BaseModel `bun:"table:providers,alias:p"`

	ID             int64     `bun:"id,pk"`
	DisplayName    string    `bun:"display_name"`
	Slug           string    `bun:"slug"`
	Bio            string    `bun:"bio"`
	PhotoURL       string    `bun:"photo_url"`
	HourlyRate     float64   `bun:"hourly_rate"`
	Languages      []string  `bun:"languages,array"`
	Verified       bool      `bun:"verified"`
	CalendarSynced bool      `bun:"calendar_synced"`
	CreatedAt      time.Time `bun:"created_at"`
}

type TeamMembership struct {
	bun.BaseModel `bun:"table:team_memberships,alias:tm"`

	ID         int64  `bun:"id,pk"`
	ProviderID int64  `bun:"provider_id"`
	TeamID     int64  `bun:"team_id"`
	Role       string `bun:"role"` // member or leader
}

type ServiceArea struct {
	bun.BaseModel `bun:"table:service_areas,alias:sa"`

	ID         int64  `bun:"id,pk"`
	ProviderID int64  `bun:"provider_id"`
	Zone       string `bun:"zone"`
}

type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID         int64     `bun:"id,pk"`
	ProviderID int64     `bun:"provider_id"`
	Rating     int       `bun:"rating"`
	CreatedAt  time.Time `bun:"created_at"`
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID         int64     `bun:"id,pk"`
	ProviderID int64     `bun:"provider_id"`
	Status     string    `bun:"status"`
	Amount     float64   `bun:"amount"`
	CreatedAt  time.Time `bun:"created_at"`
	FinishedAt time.Time `bun:"finished_at,nullzero"`
}

type ProfileView struct {
	bun.BaseModel `bun:"table:profile_views,alias:pv"`

	ID         int64     `bun:"id,pk"`
	ProviderID int64     `bun:"provider_id"`
	ViewedAt   time.Time `bun:"viewed_at"`
}

type CustomService struct {
	bun.BaseModel `bun:"table:custom_services,alias:cs"`

	ID         int64  `bun:"id,pk"`
	ProviderID int64  `bun:"provider_id"`
	Name       string `bun:"name"`
	Status     string `bun:"status"` // pending, approved, rejected
}
