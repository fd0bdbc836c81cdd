package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/lorekeeper/internal/notify"
	"github.com/louisbranch/lorekeeper/internal/notify/render"
	"github.com/louisbranch/lorekeeper/internal/research/domain"
	"github.com/louisbranch/lorekeeper/internal/research/journal"
)

// Metadata annotates a point adjustment for the journal.
type Metadata struct {
	Reason    string
	ActorUUID string
	ActorName string
	Roll      json.RawMessage
}

// AdjustPoints shifts a topic's own progress counter by delta.
//
// Topics whose progress is derived from locations reject the call with a
// logged warning and no state change; callers must use
// AdjustLocationPoints. A missing topic is a silent no-op. The applied
// return reports whether any state changed.
func (s *Service) AdjustPoints(ctx context.Context, topicID string, delta int, meta Metadata) (applied bool, err error) {
	s.mu.Lock()

	idx, ok := s.topicIndexLocked(topicID)
	if !ok {
		s.mu.Unlock()
		return false, nil
	}

	updated, before, after, applyErr := domain.ApplyTopicDelta(s.topics[idx], delta)
	if applyErr != nil {
		s.logger.Printf("rejected direct adjustment on topic %s: %v", topicID, applyErr)
		s.mu.Unlock()
		return false, nil
	}
	if after == before {
		s.mu.Unlock()
		return false, nil
	}

	prevTopic := s.topics[idx].Clone()
	prevEntries := journal.Clone(s.entries)

	s.topics[idx] = updated
	s.journalPointsLocked(topicID, after-before, meta)
	pending := s.revealPassLocked(idx)

	if err := s.persistLocked(ctx); err != nil {
		s.topics[idx] = prevTopic
		s.entries = prevEntries
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.dispatch(ctx, pending)
	return true, nil
}

// AdjustLocationPoints shifts a location's collected points by delta,
// clamped to the location budget. On a non-zero net change the parent
// aggregates re-derive, a journal entry is appended, and reveal automation
// runs. Missing ids are silent no-ops.
func (s *Service) AdjustLocationPoints(ctx context.Context, topicID, locationID string, delta int, meta Metadata) (applied bool, err error) {
	s.mu.Lock()

	idx, ok := s.topicIndexLocked(topicID)
	if !ok {
		s.mu.Unlock()
		return false, nil
	}

	topic := s.topics[idx].Clone()
	locIdx := -1
	for i := range topic.Locations {
		if topic.Locations[i].ID == locationID {
			locIdx = i
			break
		}
	}
	if locIdx < 0 {
		s.mu.Unlock()
		return false, nil
	}

	updated, before, after := domain.ApplyLocationDelta(topic.Locations[locIdx], delta)
	if after == before {
		s.mu.Unlock()
		return false, nil
	}
	topic.Locations[locIdx] = updated

	prevTopic := s.topics[idx].Clone()
	prevEntries := journal.Clone(s.entries)

	// Re-derive the parent aggregate before the reveal pass sees it.
	s.topics[idx] = domain.NormalizeTopic(topic, s.idFunc())
	s.journalPointsLocked(topicID, after-before, meta)
	pending := s.revealPassLocked(idx)

	if err := s.persistLocked(ctx); err != nil {
		s.topics[idx] = prevTopic
		s.entries = prevEntries
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.dispatch(ctx, pending)
	return true, nil
}

// journalPointsLocked appends the point-change entry for an adjustment.
func (s *Service) journalPointsLocked(topicID string, net int, meta Metadata) {
	message := meta.Reason
	if message == "" {
		message = fmt.Sprintf("%+d research points", net)
	}
	points := net
	s.appendEntryLocked(journal.Entry{
		ID:        s.idFunc()(),
		TopicID:   topicID,
		Message:   message,
		Timestamp: s.now(),
		Points:    &points,
		ActorUUID: meta.ActorUUID,
		ActorName: meta.ActorName,
		Roll:      meta.Roll,
	})
}

// revealPassLocked transitions every threshold newly satisfied by current
// progress. All satisfied thresholds transition in the same pass, each with
// its own journal entry and audience notifications. The returned
// notifications must be dispatched after the state persists.
func (s *Service) revealPassLocked(idx int) []notification {
	topic := &s.topics[idx]

	var pending []notification
	for i := range topic.Thresholds {
		th := &topic.Thresholds[i]
		if th.Points > topic.Progress || th.RevealedAt != nil {
			continue
		}

		at := s.now()
		th.RevealedAt = &at
		if topic.RevealedThresholds == nil {
			topic.RevealedThresholds = make(map[string]time.Time)
		}
		topic.RevealedThresholds[th.ID] = at

		s.appendEntryLocked(journal.Entry{
			ID:        s.idFunc()(),
			TopicID:   topic.ID,
			Message:   fmt.Sprintf("Threshold reached at %d points", th.Points),
			Timestamp: at,
		})

		pending = append(pending, s.thresholdNotifications(*topic, *th)...)
	}
	return pending
}

// thresholdNotifications renders the player and GM reveals for one
// threshold, each from its own narrative payload.
func (s *Service) thresholdNotifications(topic domain.Topic, th domain.Threshold) []notification {
	player := render.Render(s.localizer, render.Input{
		Kind:      render.KindThreshold,
		TopicName: topic.Name,
		Text:      th.PlayerText,
	})
	gm := render.Render(s.localizer, render.Input{
		Kind:      render.KindThreshold,
		TopicName: topic.Name,
		Text:      th.GMText,
	})
	return []notification{
		{audience: notify.AudiencePlayer, title: player.Title, body: player.Body},
		{audience: notify.AudienceGM, title: gm.Title, body: gm.Body},
	}
}
