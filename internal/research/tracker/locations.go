package tracker

import (
	"context"

	"github.com/louisbranch/lorekeeper/internal/research/domain"
)

// LocationUpdate carries the fields of a partial location update. Nil
// fields are left untouched.
type LocationUpdate struct {
	Name           *string
	MaxPoints      *int
	Collected      *int
	Checks         *[]domain.Check
	Description    *string
	AssignedActors *[]domain.ActorRef
	// IsRevealed is the explicit-edit escape hatch for the otherwise
	// one-way reveal flag; setting it false also clears RevealedAt.
	IsRevealed *bool
}

// CreateLocation appends a location to the parent topic and persists. A
// missing topic is a no-op.
func (s *Service) CreateLocation(ctx context.Context, topicID string, loc domain.Location) (domain.Location, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.topicIndexLocked(topicID)
	if !ok {
		return domain.Location{}, false, nil
	}

	merged := s.topics[idx].Clone()
	merged.Locations = append(merged.Locations, loc)

	prev := s.topics[idx]
	s.topics[idx] = domain.NormalizeTopic(merged, s.idFunc())

	if err := s.persistLocked(ctx); err != nil {
		s.topics[idx] = prev
		return domain.Location{}, false, err
	}

	created := s.topics[idx].Locations[len(s.topics[idx].Locations)-1]
	return created.Clone(), true, nil
}

// UpdateLocation merges the partial update onto the location and persists.
// Missing topic or location ids are no-ops.
func (s *Service) UpdateLocation(ctx context.Context, topicID, locationID string, update LocationUpdate) (domain.Location, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.topicIndexLocked(topicID)
	if !ok {
		return domain.Location{}, false, nil
	}

	merged := s.topics[idx].Clone()
	locIdx := -1
	for i := range merged.Locations {
		if merged.Locations[i].ID == locationID {
			locIdx = i
			break
		}
	}
	if locIdx < 0 {
		return domain.Location{}, false, nil
	}

	loc := &merged.Locations[locIdx]
	if update.Name != nil {
		loc.Name = *update.Name
	}
	if update.MaxPoints != nil {
		loc.MaxPoints = *update.MaxPoints
	}
	if update.Collected != nil {
		loc.Collected = *update.Collected
	}
	if update.Checks != nil {
		loc.Checks = *update.Checks
		loc.Skill = ""
		loc.DC = nil
	}
	if update.Description != nil {
		loc.Description = *update.Description
	}
	if update.AssignedActors != nil {
		loc.AssignedActors = *update.AssignedActors
	}
	if update.IsRevealed != nil {
		loc.IsRevealed = *update.IsRevealed
		if !*update.IsRevealed {
			loc.RevealedAt = nil
		}
	}

	prev := s.topics[idx]
	s.topics[idx] = domain.NormalizeTopic(merged, s.idFunc())

	if err := s.persistLocked(ctx); err != nil {
		s.topics[idx] = prev
		return domain.Location{}, false, err
	}

	updated, _ := s.topics[idx].Location(locationID)
	return updated.Clone(), true, nil
}

// DeleteLocation removes a location from the parent topic and persists.
// Missing ids are no-ops.
func (s *Service) DeleteLocation(ctx context.Context, topicID, locationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.topicIndexLocked(topicID)
	if !ok {
		return false, nil
	}

	merged := s.topics[idx].Clone()
	kept := merged.Locations[:0]
	found := false
	for _, loc := range merged.Locations {
		if loc.ID == locationID {
			found = true
			continue
		}
		kept = append(kept, loc)
	}
	if !found {
		return false, nil
	}
	merged.Locations = kept

	prev := s.topics[idx]
	s.topics[idx] = domain.NormalizeTopic(merged, s.idFunc())

	if err := s.persistLocked(ctx); err != nil {
		s.topics[idx] = prev
		return false, err
	}
	return true, nil
}
