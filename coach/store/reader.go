package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/tidyhive/success-coach/coach/contract"
)

type Config struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

// Open builds a bun DB over the Postgres driver.
func Open(cfg Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Reader implements contract.SnapshotReader over the marketplace tables.
type Reader struct {
	db bun.IDB
}

var _ contractx.SnapshotReader = (*Reader)(nil)

func NewReader(db bun.IDB) *Reader {
	return &Reader{db: db}
}

// ActorSnapshot assembles the provider row plus the derived counts every
// scorer input needs. One snapshot per request; nothing is cached.
func (r *Reader) ActorSnapshot(ctx context.Context, actorID int64) (contractx.ActorSnapshot, error) {
	var provider Provider
	err := r.db.NewSelect().Model(&provider).Where("p.id = ?", actorID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return contractx.ActorSnapshot{}, fmt.Errorf("%w: id=%d", contractx.ErrActorNotFound, actorID)
		}
		return contractx.ActorSnapshot{}, fmt.Errorf("select provider: %w", err)
	}

	affiliation, err := r.affiliation(ctx, actorID)
	if err != nil {
		return contractx.ActorSnapshot{}, err
	}

	areaCount, err := r.db.NewSelect().Model((*ServiceArea)(nil)).
		Where("sa.provider_id = ?", actorID).Count(ctx)
	if err != nil {
		return contractx.ActorSnapshot{}, fmt.Errorf("count service areas: %w", err)
	}

	reviewCount, err := r.db.NewSelect().Model((*Review)(nil)).
		Where("r.provider_id = ?", actorID).Count(ctx)
	if err != nil {
		return contractx.ActorSnapshot{}, fmt.Errorf("count reviews: %w", err)
	}

	approvedCount, err := r.db.NewSelect().Model((*CustomService)(nil)).
		Where("cs.provider_id = ?", actorID).
		Where("cs.status = ?", "approved").Count(ctx)
	if err != nil {
		return contractx.ActorSnapshot{}, fmt.Errorf("count approved services: %w", err)
	}

	completedCount, err := r.db.NewSelect().Model((*Booking)(nil)).
		Where("b.provider_id = ?", actorID).
		Where("b.status = ?", "completed").Count(ctx)
	if err != nil {
		return contractx.ActorSnapshot{}, fmt.Errorf("count completed bookings: %w", err)
	}

	return contractx.ActorSnapshot{
		ID:                    provider.ID,
		DisplayName:           provider.DisplayName,
		Slug:                  provider.Slug,
		Affiliation:           affiliation,
		HourlyRate:            provider.HourlyRate,
		Bio:                   provider.Bio,
		HasPhoto:              provider.PhotoURL != "",
		Languages:             provider.Languages,
		Verified:              provider.Verified,
		ServiceAreaCount:      areaCount,
		CalendarSynced:        provider.CalendarSynced,
		ReviewCount:           reviewCount,
		ApprovedServiceCount:  approvedCount,
		CompletedBookingCount: completedCount,
	}, nil
}

func (r *Reader) affiliation(ctx context.Context, actorID int64) (contractx.AffiliationRole, error) {
	var membership TeamMembership
	err := r.db.NewSelect().Model(&membership).
		Where("tm.provider_id = ?", actorID).
		Order("tm.id ASC").Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return contractx.AffiliationNone, nil
		}
		return contractx.AffiliationNone, fmt.Errorf("select membership: %w", err)
	}
	if membership.Role == "leader" {
		return contractx.AffiliationLeader, nil
	}
	return contractx.AffiliationMember, nil
}

// ViewCounts counts profile views in the two trailing 7-day windows.
func (r *Reader) ViewCounts(ctx context.Context, actorID int64, w contractx.Windows) (contractx.ViewCounts, error) {
	thisWeek, err := r.db.NewSelect().Model((*ProfileView)(nil)).
		Where("pv.provider_id = ?", actorID).
		Where("pv.viewed_at >= ?", w.WeekAgo).
		Where("pv.viewed_at <= ?", w.Now).Count(ctx)
	if err != nil {
		return contractx.ViewCounts{}, fmt.Errorf("count current week views: %w", err)
	}

	lastWeek, err := r.db.NewSelect().Model((*ProfileView)(nil)).
		Where("pv.provider_id = ?", actorID).
		Where("pv.viewed_at >= ?", w.TwoWeeksAgo).
		Where("pv.viewed_at < ?", w.WeekAgo).Count(ctx)
	if err != nil {
		return contractx.ViewCounts{}, fmt.Errorf("count prior week views: %w", err)
	}

	return contractx.ViewCounts{ThisWeek: thisWeek, LastWeek: lastWeek}, nil
}

// Bookings returns the full outcome history for the actor. The aggregator
// does its own window filtering, so one query serves every revenue window.
func (r *Reader) Bookings(ctx context.Context, actorID int64) ([]contractx.BookingRecord, error) {
	var rows []Booking
	err := r.db.NewSelect().Model(&rows).
		Where("b.provider_id = ?", actorID).
		Order("b.created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select bookings: %w", err)
	}

	records := make([]contractx.BookingRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, contractx.BookingRecord{
			Amount:     row.Amount,
			Status:     contractx.BookingStatus(row.Status),
			FinishedAt: row.FinishedAt,
		})
	}
	return records, nil
}
