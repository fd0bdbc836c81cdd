package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/lorekeeper/internal/research/domain"
	"github.com/louisbranch/lorekeeper/internal/research/journal"
	"github.com/louisbranch/lorekeeper/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestLoadStateEmpty(t *testing.T) {
	store := openTestStore(t)

	state, err := store.LoadState(context.Background())
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if len(state.Topics) != 0 || len(state.Journal) != 0 {
		t.Fatalf("expected empty state, got %+v", state)
	}
}

func TestSaveAndLoadStateRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	dc := 15
	points := 1
	at := time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)
	state := storage.State{
		Topics: []domain.Topic{
			{
				ID:   "topic-1",
				Name: "The Whispering Vault",
				Locations: []domain.Location{{
					ID:        "loc-1",
					Name:      "Archives",
					MaxPoints: 10,
					Collected: 4,
					Checks:    []domain.Check{{Skill: "society", DC: &dc}},
					Skill:     "society",
					DC:        &dc,
				}},
				Thresholds: []domain.Threshold{{ID: "th-1", Points: 5, GMText: "gm", PlayerText: "player"}},
				RevealedThresholds: map[string]time.Time{
					"th-1": at,
				},
			},
			{ID: "topic-2", Name: "Salt Mine Rumors", Progress: 3, Target: 6, Skill: "diplomacy"},
		},
		Journal: []journal.Entry{
			{ID: "log-1", TopicID: "topic-1", Message: "Gained 1 point", Timestamp: at, Points: &points},
		},
	}

	if err := store.SaveState(ctx, state); err != nil {
		t.Fatalf("save state: %v", err)
	}

	loaded, err := store.LoadState(ctx)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if len(loaded.Topics) != 2 {
		t.Fatalf("expected two topics, got %d", len(loaded.Topics))
	}
	if loaded.Topics[0].ID != "topic-1" || loaded.Topics[1].ID != "topic-2" {
		t.Fatalf("expected insertion order preserved, got %s then %s", loaded.Topics[0].ID, loaded.Topics[1].ID)
	}
	loc := loaded.Topics[0].Locations[0]
	if loc.DC == nil || *loc.DC != 15 {
		t.Fatalf("expected dc 15, got %v", loc.DC)
	}
	revealedAt, ok := loaded.Topics[0].RevealedThresholds["th-1"]
	if !ok || !revealedAt.Equal(at) {
		t.Fatalf("expected revealed timestamp %v, got %v", at, revealedAt)
	}
	if len(loaded.Journal) != 1 {
		t.Fatalf("expected one journal entry, got %d", len(loaded.Journal))
	}
	if loaded.Journal[0].Points == nil || *loaded.Journal[0].Points != 1 {
		t.Fatalf("expected journal points 1, got %v", loaded.Journal[0].Points)
	}
}

func TestSaveStateReplacesPreviousState(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := storage.State{Topics: []domain.Topic{{ID: "topic-1", Name: "First"}}}
	if err := store.SaveState(ctx, first); err != nil {
		t.Fatalf("save first state: %v", err)
	}

	second := storage.State{Topics: []domain.Topic{{ID: "topic-2", Name: "Second"}}}
	if err := store.SaveState(ctx, second); err != nil {
		t.Fatalf("save second state: %v", err)
	}

	loaded, err := store.LoadState(ctx)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if len(loaded.Topics) != 1 || loaded.Topics[0].ID != "topic-2" {
		t.Fatalf("expected full replacement with topic-2, got %+v", loaded.Topics)
	}
}

func TestSaveStateIsRetrySafe(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	state := storage.State{Topics: []domain.Topic{{ID: "topic-1", Name: "Retry"}}}
	if err := store.SaveState(ctx, state); err != nil {
		t.Fatalf("save state: %v", err)
	}
	if err := store.SaveState(ctx, state); err != nil {
		t.Fatalf("re-save state: %v", err)
	}

	loaded, err := store.LoadState(ctx)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if len(loaded.Topics) != 1 {
		t.Fatalf("expected one topic after retry, got %d", len(loaded.Topics))
	}
}
