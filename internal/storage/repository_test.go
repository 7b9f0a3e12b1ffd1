package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "orbital.db")
	repo, err := NewRepository(dbPath)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return repo
}

func TestRepository_RecentVisits_NewestFirstAndDeduplicated(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	visits := []Visit{
		{Country: "Australia", Code: "AU", VisitedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)},
		{Country: "Japan", Code: "JP", VisitedAt: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)},
		{Country: "Australia", Code: "AU", VisitedAt: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)},
	}
	for _, v := range visits {
		if err := repo.RecordVisit(ctx, v); err != nil {
			t.Fatalf("RecordVisit returned error: %v", err)
		}
	}

	listed, err := repo.RecentVisits(ctx, 10)
	if err != nil {
		t.Fatalf("RecentVisits returned error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 distinct countries, got %d", len(listed))
	}
	if listed[0].Country != "Australia" || listed[1].Country != "Japan" {
		t.Fatalf("expected newest first, got %+v", listed)
	}
	if !listed[0].VisitedAt.Equal(visits[2].VisitedAt) {
		t.Fatalf("expected latest visit time, got %v", listed[0].VisitedAt)
	}

	limited, err := repo.RecentVisits(ctx, 1)
	if err != nil {
		t.Fatalf("RecentVisits returned error: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestRepository_Preferences(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	prefs, err := repo.LoadPreferences(ctx)
	if err != nil {
		t.Fatalf("LoadPreferences returned error: %v", err)
	}
	if prefs != DefaultPreferences() {
		t.Fatalf("expected defaults before save, got %+v", prefs)
	}
	if prefs.Charset != "" {
		t.Fatalf("expected no stored charset before save, got %q", prefs.Charset)
	}

	want := Preferences{Charset: "braille", AutoRotate: false}
	if err := repo.SavePreferences(ctx, want); err != nil {
		t.Fatalf("SavePreferences returned error: %v", err)
	}
	want.Charset = "ascii"
	if err := repo.SavePreferences(ctx, want); err != nil {
		t.Fatalf("second SavePreferences returned error: %v", err)
	}

	got, err := repo.LoadPreferences(ctx)
	if err != nil {
		t.Fatalf("LoadPreferences returned error: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected preferences: got=%+v want=%+v", got, want)
	}
}

func TestRepository_RecentVisits_OrdersWholeSecondsBeforeLaterFractions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	whole := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	later := whole.Add(500 * time.Millisecond)
	visits := []Visit{
		{Country: "Japan", Code: "JP", VisitedAt: later},
		{Country: "Australia", Code: "AU", VisitedAt: whole},
	}
	for _, v := range visits {
		if err := repo.RecordVisit(ctx, v); err != nil {
			t.Fatalf("RecordVisit returned error: %v", err)
		}
	}

	listed, err := repo.RecentVisits(ctx, 10)
	if err != nil {
		t.Fatalf("RecentVisits returned error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 visits, got %d", len(listed))
	}
	if listed[0].Country != "Japan" || listed[1].Country != "Australia" {
		t.Fatalf("expected the fractional visit first, got %+v", listed)
	}
	if !listed[0].VisitedAt.Equal(later) || !listed[1].VisitedAt.Equal(whole) {
		t.Fatalf("unexpected visit times: %v, %v", listed[0].VisitedAt, listed[1].VisitedAt)
	}
}
