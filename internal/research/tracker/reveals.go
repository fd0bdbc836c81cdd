package tracker

import (
	"context"
	"time"

	"github.com/louisbranch/lorekeeper/internal/notify"
	"github.com/louisbranch/lorekeeper/internal/notify/render"
	"github.com/louisbranch/lorekeeper/internal/research/domain"
	"github.com/louisbranch/lorekeeper/internal/research/journal"
)

// SendThresholdReveal reveals one threshold by hand.
//
// The first call sets the reveal timestamp and notifies both audiences.
// Later calls are no-ops unless resend is true, which re-fires the
// notifications without touching the already-set timestamp. Missing ids
// are silent no-ops. The notified return reports whether notifications
// were dispatched.
func (s *Service) SendThresholdReveal(ctx context.Context, topicID, thresholdID string, resend bool) (notified bool, err error) {
	s.mu.Lock()

	idx, ok := s.topicIndexLocked(topicID)
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	topic := &s.topics[idx]

	thIdx := -1
	for i := range topic.Thresholds {
		if topic.Thresholds[i].ID == thresholdID {
			thIdx = i
			break
		}
	}
	if thIdx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	th := &topic.Thresholds[thIdx]

	if th.RevealedAt != nil && !resend {
		s.mu.Unlock()
		return false, nil
	}

	var pending []notification
	if th.RevealedAt == nil {
		prevTopic := topic.Clone()
		prevEntries := journal.Clone(s.entries)

		at := s.now()
		th.RevealedAt = &at
		if topic.RevealedThresholds == nil {
			topic.RevealedThresholds = make(map[string]time.Time)
		}
		topic.RevealedThresholds[th.ID] = at

		s.appendEntryLocked(journal.Entry{
			ID:        s.idFunc()(),
			TopicID:   topic.ID,
			Message:   "Threshold revealed",
			Timestamp: at,
		})

		pending = s.thresholdNotifications(*topic, *th)
		if err := s.persistLocked(ctx); err != nil {
			s.topics[idx] = prevTopic
			s.entries = prevEntries
			s.mu.Unlock()
			return false, err
		}
	} else {
		// Resend re-fires notifications only; no state changes, no persist.
		pending = s.thresholdNotifications(*topic, *th)
	}
	s.mu.Unlock()

	s.dispatch(ctx, pending)
	return true, nil
}

// SendLocationReveal reveals one location by hand. Location reveals are
// never point-driven; this and a direct edit are the only paths that flip
// the flag. Semantics mirror SendThresholdReveal.
func (s *Service) SendLocationReveal(ctx context.Context, topicID, locationID string, resend bool) (notified bool, err error) {
	s.mu.Lock()

	idx, ok := s.topicIndexLocked(topicID)
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	topic := &s.topics[idx]

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
	loc := &topic.Locations[locIdx]

	if loc.IsRevealed && !resend {
		s.mu.Unlock()
		return false, nil
	}

	var pending []notification
	if !loc.IsRevealed {
		prevTopic := topic.Clone()
		prevEntries := journal.Clone(s.entries)

		at := s.now()
		loc.IsRevealed = true
		loc.RevealedAt = &at

		s.appendEntryLocked(journal.Entry{
			ID:        s.idFunc()(),
			TopicID:   topic.ID,
			Message:   "Location revealed: " + loc.Name,
			Timestamp: at,
		})

		pending = s.locationNotifications(*topic, *loc)
		if err := s.persistLocked(ctx); err != nil {
			s.topics[idx] = prevTopic
			s.entries = prevEntries
			s.mu.Unlock()
			return false, err
		}
	} else {
		pending = s.locationNotifications(*topic, *loc)
	}
	s.mu.Unlock()

	s.dispatch(ctx, pending)
	return true, nil
}

func (s *Service) locationNotifications(topic domain.Topic, loc domain.Location) []notification {
	out := render.Render(s.localizer, render.Input{
		Kind:      render.KindLocation,
		TopicName: topic.Name,
		Text:      loc.Description,
	})
	return []notification{
		{audience: notify.AudiencePlayer, title: out.Title, body: out.Body},
		{audience: notify.AudienceGM, title: out.Title, body: out.Body},
	}
}
