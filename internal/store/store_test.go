package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/linux-brat/BClicker/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "bclicker.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestInsertAndListSessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := SessionRecord{
			StartedAt: start.Add(time.Duration(i) * time.Hour),
			EndedAt:   start.Add(time.Duration(i)*time.Hour + 10*time.Minute),
			Clicks:    uint64(100 * (i + 1)),
			AvgCPS:    float64(10 * (i + 1)),
			Rate:      30,
			Button:    model.ButtonPrimary,
		}
		if _, err := s.InsertSession(ctx, rec); err != nil {
			t.Fatalf("InsertSession: %v", err)
		}
	}

	sessions, err := s.ListSessions(ctx, 2)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].Clicks != 300 {
		t.Errorf("newest session clicks = %d, want 300", sessions[0].Clicks)
	}
	if !sessions[0].EndedAt.After(sessions[1].EndedAt) {
		t.Error("sessions not ordered newest first")
	}
}

func TestListAllSessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := SessionRecord{
		StartedAt: time.Now().Add(-time.Minute),
		EndedAt:   time.Now(),
		Clicks:    42,
		AvgCPS:    0.7,
		Rate:      50,
		Button:    model.ButtonSecondary,
	}
	if _, err := s.InsertSession(ctx, rec); err != nil {
		t.Fatalf("InsertSession: %v", err)
	}

	sessions, err := s.ListSessions(ctx, 0)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].Button != model.ButtonSecondary {
		t.Errorf("button = %v, want %v", sessions[0].Button, model.ButtonSecondary)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bclicker.db")
	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatal(err)
	}
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if err := s2.Close(); err != nil {
		t.Fatal(err)
	}
}
