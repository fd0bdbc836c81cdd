package domain

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/louisbranch/lorekeeper/internal/research/matcher"
	"github.com/louisbranch/lorekeeper/internal/research/tracker"
	"github.com/louisbranch/lorekeeper/internal/storage"
)

type memStore struct {
	state storage.State
}

func (m *memStore) LoadState(ctx context.Context) (storage.State, error) {
	return m.state, nil
}

func (m *memStore) SaveState(ctx context.Context, state storage.State) error {
	m.state = state
	return nil
}

func newTestTracker(t *testing.T) (*tracker.Service, *matcher.Matcher) {
	t.Helper()
	logger := log.New(io.Discard, "", 0)

	counter := 0
	svc, err := tracker.New(tracker.Config{
		Store: &memStore{},
		Clock: func() time.Time {
			return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		},
		NewID: func() (string, error) {
			counter++
			return fmt.Sprintf("id-%04d", counter), nil
		},
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return svc, matcher.New(svc, logger)
}

func intPtr(v int) *int { return &v }

func TestTopicCreateHandlerNormalizes(t *testing.T) {
	svc, _ := newTestTracker(t)
	handler := TopicCreateHandler(svc)

	_, payload, err := handler(context.Background(), nil, TopicCreateInput{
		Locations: []LocationSpec{
			{Name: "Scriptorium", MaxPoints: 10, Collected: 4},
			{Name: "Crypt", MaxPoints: 0, Collected: 7},
		},
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if payload.Name != "Unnamed Topic" {
		t.Fatalf("expected default name, got %q", payload.Name)
	}
	if payload.ID == "" {
		t.Fatal("expected id assigned")
	}
	if payload.Target != 10 || payload.Progress != 10 {
		t.Fatalf("expected derived 10/10, got %d/%d", payload.Progress, payload.Target)
	}
	if payload.ProgressPercent != 100 {
		t.Fatalf("expected 100%%, got %v", payload.ProgressPercent)
	}
	if payload.Locations[1].ID == "" {
		t.Fatal("expected location ids assigned")
	}
}

func TestTopicUpdateHandlerNotFound(t *testing.T) {
	svc, _ := newTestTracker(t)
	handler := TopicUpdateHandler(svc)

	name := "Renamed"
	if _, _, err := handler(context.Background(), nil, TopicUpdateInput{ID: "nope", Name: &name}); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestLocationPointsAdjustHandler(t *testing.T) {
	svc, _ := newTestTracker(t)
	create := TopicCreateHandler(svc)
	adjust := LocationPointsAdjustHandler(svc)
	ctx := context.Background()

	_, topic, err := create(ctx, nil, TopicCreateInput{
		Name: "The Drowned Archive",
		Locations: []LocationSpec{
			{Name: "Scriptorium", MaxPoints: 10, Checks: []CheckSpec{{Skill: "society", DC: intPtr(15)}}},
		},
		Thresholds: []ThresholdSpec{{Points: 1, PlayerText: "A lead surfaces."}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, result, err := adjust(ctx, nil, LocationPointsAdjustInput{
		TopicID:    topic.ID,
		LocationID: topic.Locations[0].ID,
		Delta:      1,
		ActorName:  "Brin",
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !result.Applied {
		t.Fatal("expected adjustment to apply")
	}
	if result.Topic.Progress != 1 || result.Topic.ProgressPercent != 10 {
		t.Fatalf("expected 1 point and 10%%, got %d and %v%%", result.Topic.Progress, result.Topic.ProgressPercent)
	}
	if result.Topic.Thresholds[0].RevealedAt == "" {
		t.Fatal("expected threshold revealed in payload")
	}
	if len(result.Topic.Revealed) != 1 {
		t.Fatalf("expected revealed map entry, got %v", result.Topic.Revealed)
	}
}

func TestCheckOutcomeHandlerComputesDegree(t *testing.T) {
	svc, m := newTestTracker(t)
	create := TopicCreateHandler(svc)
	outcome := CheckOutcomeHandler(m)
	ctx := context.Background()

	_, topic, err := create(ctx, nil, TopicCreateInput{
		Locations: []LocationSpec{
			{Name: "Scriptorium", MaxPoints: 10, Checks: []CheckSpec{{Skill: "society", DC: intPtr(15)}}},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, result, err := outcome(ctx, nil, CheckOutcomeInput{
		EventID:   "evt-1",
		Skill:     "Society",
		Total:     18,
		DC:        intPtr(15),
		ActorUUID: "actor-1",
		ActorName: "Brin",
	})
	if err != nil {
		t.Fatalf("outcome: %v", err)
	}
	if !result.Applied {
		t.Fatal("expected outcome to apply")
	}
	if result.Degree != "success" || result.Delta != 1 {
		t.Fatalf("expected success/+1, got %s/%+d", result.Degree, result.Delta)
	}

	got, _ := svc.Topic(topic.ID)
	if got.Locations[0].Collected != 1 {
		t.Fatalf("expected collected 1, got %d", got.Locations[0].Collected)
	}
}

func TestCheckOutcomeHandlerRejectsBadDegree(t *testing.T) {
	_, m := newTestTracker(t)
	outcome := CheckOutcomeHandler(m)

	if _, _, err := outcome(context.Background(), nil, CheckOutcomeInput{
		Skill:     "society",
		Degree:    "heroic",
		ActorUUID: "actor-1",
	}); err == nil {
		t.Fatal("expected error for invalid degree")
	}

	if _, _, err := outcome(context.Background(), nil, CheckOutcomeInput{
		Skill:     "society",
		Total:     18,
		ActorUUID: "actor-1",
	}); err == nil {
		t.Fatal("expected error when degree and dc are both missing")
	}
}

func TestThresholdRevealHandler(t *testing.T) {
	svc, _ := newTestTracker(t)
	create := TopicCreateHandler(svc)
	reveal := ThresholdRevealHandler(svc)
	ctx := context.Background()

	_, topic, err := create(ctx, nil, TopicCreateInput{
		Target:     10,
		Thresholds: []ThresholdSpec{{Points: 5, PlayerText: "A clue."}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	thID := topic.Thresholds[0].ID

	_, result, err := reveal(ctx, nil, ThresholdRevealInput{TopicID: topic.ID, ThresholdID: thID})
	if err != nil || !result.Notified {
		t.Fatalf("first reveal: notified=%v err=%v", result.Notified, err)
	}

	_, result, err = reveal(ctx, nil, ThresholdRevealInput{TopicID: topic.ID, ThresholdID: thID})
	if err != nil {
		t.Fatalf("second reveal: %v", err)
	}
	if result.Notified {
		t.Fatal("second reveal without resend must not notify")
	}
}
