package tool

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/tidyhive/success-coach/coach/contract"
)

type fakeReader struct {
	snapshot    contractx.ActorSnapshot
	snapshotErr error
	views       contractx.ViewCounts
	viewsErr    error
	bookings    []contractx.BookingRecord
	bookingsErr error
	panicOn     string
}

func (f *fakeReader) ActorSnapshot(ctx context.Context, actorID int64) (contractx.ActorSnapshot, error) {
	if f.panicOn == "snapshot" {
		panic("reader blew up")
	}
	if f.snapshotErr != nil {
		return contractx.ActorSnapshot{}, f.snapshotErr
	}
	return f.snapshot, nil
}

func (f *fakeReader) ViewCounts(ctx context.Context, actorID int64, w contractx.Windows) (contractx.ViewCounts, error) {
	if f.viewsErr != nil {
		return contractx.ViewCounts{}, f.viewsErr
	}
	return f.views, nil
}

func (f *fakeReader) Bookings(ctx context.Context, actorID int64) ([]contractx.BookingRecord, error) {
	if f.bookingsErr != nil {
		return nil, f.bookingsErr
	}
	return f.bookings, nil
}

func testWindows() func() contractx.Windows {
	return func() contractx.Windows {
		return contractx.WindowsAt(time.Date(2025, time.March, 18, 12, 0, 0, 0, time.UTC))
	}
}

func TestForActorLockedExposesOnlyProfileHealth(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog(&fakeReader{}, testWindows())
	descriptors := catalog.ForActor(false)
	if len(descriptors) != 1 {
		t.Fatalf("expected exactly 1 tool when locked, got %d", len(descriptors))
	}
	if descriptors[0].Name != ToolProfileHealth {
		t.Fatalf("expected %s, got %s", ToolProfileHealth, descriptors[0].Name)
	}
}

func TestForActorUnlockedExposesFullSet(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog(&fakeReader{}, testWindows())
	descriptors := catalog.ForActor(true)
	if len(descriptors) != 4 {
		t.Fatalf("expected 4 tools when unlocked, got %d", len(descriptors))
	}
	for _, d := range descriptors {
		schema, ok := d.InputSchema["type"]
		if !ok || schema != "object" {
			t.Fatalf("tool %s must declare a JSON-schema object input", d.Name)
		}
	}
}

func TestExecuteGatedToolWhileLocked(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog(&fakeReader{}, testWindows())
	results := catalog.Execute(context.Background(), false, 1, []contractx.ToolRequest{
		{Tool: ToolRevenueStats},
	})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == "" {
		t.Fatal("gated tool must return an unavailable payload while locked")
	}
	if results[0].Result != nil {
		t.Fatal("gated tool must not leak a result while locked")
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog(&fakeReader{}, testWindows())
	results := catalog.Execute(context.Background(), true, 1, []contractx.ToolRequest{
		{Tool: "delete_everything"},
	})
	if results[0].Error == "" {
		t.Fatal("unknown tool must return an unavailable payload")
	}
}

func TestExecuteProfileHealth(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog(&fakeReader{snapshot: contractx.ActorSnapshot{HasPhoto: true}}, testWindows())
	results := catalog.Execute(context.Background(), false, 1, []contractx.ToolRequest{
		{Tool: ToolProfileHealth},
	})
	if results[0].Error != "" {
		t.Fatalf("unexpected tool error: %s", results[0].Error)
	}
	healthOut, ok := results[0].Result.(contractx.ProfileHealth)
	if !ok {
		t.Fatalf("unexpected result type: %T", results[0].Result)
	}
	if healthOut.Score != 20 {
		t.Fatalf("expected score 20 for photo-only profile, got %d", healthOut.Score)
	}
}

func TestFailingToolDoesNotPoisonSiblings(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{
		snapshot:    contractx.ActorSnapshot{CompletedBookingCount: 3},
		bookingsErr: errors.New("store unreachable"),
	}
	catalog := NewCatalog(reader, testWindows())

	results := catalog.Execute(context.Background(), true, 1, []contractx.ToolRequest{
		{Tool: ToolRevenueStats},
		{Tool: ToolProgression},
	})
	if results[0].Tool != ToolRevenueStats || results[0].Error == "" {
		t.Fatalf("expected revenue tool failure in slot 0, got %+v", results[0])
	}
	if results[1].Tool != ToolProgression || results[1].Error != "" {
		t.Fatalf("sibling tool must still succeed, got %+v", results[1])
	}
}

func TestPanickingHandlerBecomesErrorPayload(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog(&fakeReader{panicOn: "snapshot"}, testWindows())
	results := catalog.Execute(context.Background(), true, 1, []contractx.ToolRequest{
		{Tool: ToolProfileHealth},
		{Tool: ToolEngagementStats},
	})
	if results[0].Error != "get_profile_health failed" {
		t.Fatalf("expected panic converted to failure payload, got %+v", results[0])
	}
	if results[1].Error != "" {
		t.Fatalf("sibling call must survive a panicking handler, got %+v", results[1])
	}
}

func TestExecutePreservesRequestOrder(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog(&fakeReader{snapshot: contractx.ActorSnapshot{CompletedBookingCount: 1}}, testWindows())
	reqs := []contractx.ToolRequest{
		{Tool: ToolProgression},
		{Tool: ToolProfileHealth},
		{Tool: ToolEngagementStats},
	}
	results := catalog.Execute(context.Background(), true, 1, reqs)
	for i, req := range reqs {
		if results[i].Tool != req.Tool {
			t.Fatalf("slot %d: expected %s, got %s", i, req.Tool, results[i].Tool)
		}
	}
}
