package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"TrendRadar/internal/domain"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(t.TempDir(), 90)
	ctx := context.Background()

	first := domain.Snapshot{
		CompanyID:  "fixo",
		CapturedAt: time.Date(2026, time.February, 23, 6, 0, 0, 0, time.UTC),
		Services:   []domain.Service{{Name: "Cleaning", Price: "20", PriceModel: "hourly"}},
	}
	second := first
	second.CapturedAt = time.Date(2026, time.March, 2, 6, 0, 0, 0, time.UTC)
	second.Services = []domain.Service{{Name: "Cleaning", Price: "25", PriceModel: "hourly"}}

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	latest, err := store.Latest(ctx, "fixo")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || !latest.CapturedAt.Equal(second.CapturedAt) {
		t.Fatalf("unexpected latest snapshot: %+v", latest)
	}
	if latest.Services[0].Price != "25" {
		t.Fatalf("unexpected latest price: %s", latest.Services[0].Price)
	}

	previous, err := store.Previous(ctx, "fixo")
	if err != nil {
		t.Fatalf("previous: %v", err)
	}
	if previous == nil || !previous.CapturedAt.Equal(first.CapturedAt) {
		t.Fatalf("unexpected previous snapshot: %+v", previous)
	}
}

func TestSnapshotStoreEmptyCompany(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(t.TempDir(), 90)

	latest, err := store.Latest(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil snapshot, got %+v", latest)
	}
}

func TestSnapshotStorePrunesOldCaptures(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(t.TempDir(), 3)
	ctx := context.Background()

	base := time.Date(2026, time.January, 5, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		snap := domain.Snapshot{CompanyID: "fixo", CapturedAt: base.AddDate(0, 0, 7*i)}
		if err := store.Save(ctx, snap); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	files, err := store.list("fixo")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 retained snapshots, got %d", len(files))
	}

	latest, err := store.Latest(ctx, "fixo")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !latest.CapturedAt.Equal(base.AddDate(0, 0, 28)) {
		t.Fatalf("pruning removed the wrong end: %v", latest.CapturedAt)
	}
}

func TestHistoryStoreAppendAndCap(t *testing.T) {
	t.Parallel()

	store := NewHistoryStore(t.TempDir() + "/history.json")
	ctx := context.Background()

	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("entries on missing file: %v", err)
	}
	if entries != nil {
		t.Fatalf("expected no entries, got %+v", entries)
	}

	base := time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)
	for i := 0; i < domain.HistoryCap+3; i++ {
		entry := domain.HistoryEntry{
			IssueID:     fmt.Sprintf("issue-%d", i),
			PublishedAt: base.AddDate(0, 0, 7*i),
			Articles: []domain.PublishedArticle{
				{URL: fmt.Sprintf("https://example.com/%d", i), Title: fmt.Sprintf("Issue %d", i)},
			},
		}
		if err := store.Append(ctx, entry); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entries, err = store.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != domain.HistoryCap {
		t.Fatalf("expected history capped at %d, got %d", domain.HistoryCap, len(entries))
	}

	// Newest first; the oldest three issues were evicted.
	if entries[0].IssueID != fmt.Sprintf("issue-%d", domain.HistoryCap+2) {
		t.Fatalf("unexpected newest entry: %s", entries[0].IssueID)
	}
	if entries[len(entries)-1].IssueID != "issue-3" {
		t.Fatalf("unexpected oldest entry: %s", entries[len(entries)-1].IssueID)
	}
}
