package tracker

import (
	"context"

	"github.com/louisbranch/lorekeeper/internal/research/domain"
	"github.com/louisbranch/lorekeeper/internal/research/journal"
)

// TopicUpdate carries the fields of a partial topic update. Nil fields are
// left untouched.
type TopicUpdate struct {
	Name       *string
	Progress   *int
	Target     *int
	Skill      *string
	Locations  *[]domain.Location
	Thresholds *[]domain.Threshold
}

// CreateTopic normalizes the input, inserts it, and persists.
func (s *Service) CreateTopic(ctx context.Context, topic domain.Topic) (domain.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := domain.NormalizeTopic(topic, s.idFunc())
	s.topics = append(s.topics, created)

	if err := s.persistLocked(ctx); err != nil {
		s.topics = s.topics[:len(s.topics)-1]
		return domain.Topic{}, err
	}
	return created.Clone(), nil
}

// UpdateTopic merges the partial update onto the topic, re-normalizes so
// derived fields recompute, and persists. A missing topic is a no-op.
func (s *Service) UpdateTopic(ctx context.Context, topicID string, update TopicUpdate) (domain.Topic, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.topicIndexLocked(topicID)
	if !ok {
		return domain.Topic{}, false, nil
	}

	merged := s.topics[idx].Clone()
	if update.Name != nil {
		merged.Name = *update.Name
	}
	if update.Progress != nil {
		merged.Progress = *update.Progress
	}
	if update.Target != nil {
		merged.Target = *update.Target
	}
	if update.Skill != nil {
		merged.Skill = *update.Skill
	}
	if update.Locations != nil {
		merged.Locations = *update.Locations
	}
	if update.Thresholds != nil {
		merged.Thresholds = *update.Thresholds
	}

	prev := s.topics[idx]
	s.topics[idx] = domain.NormalizeTopic(merged, s.idFunc())

	if err := s.persistLocked(ctx); err != nil {
		s.topics[idx] = prev
		return domain.Topic{}, false, err
	}
	return s.topics[idx].Clone(), true, nil
}

// DeleteTopic removes the topic and cascades deletion of its journal
// entries. A missing topic is a no-op.
func (s *Service) DeleteTopic(ctx context.Context, topicID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.topicIndexLocked(topicID)
	if !ok {
		return false, nil
	}

	prevTopics := make([]domain.Topic, len(s.topics))
	copy(prevTopics, s.topics)
	prevEntries := journal.Clone(s.entries)

	s.topics = append(s.topics[:idx], s.topics[idx+1:]...)
	s.entries = journal.WithoutTopic(s.entries, topicID)

	if err := s.persistLocked(ctx); err != nil {
		s.topics = prevTopics
		s.entries = prevEntries
		return false, err
	}
	return true, nil
}
