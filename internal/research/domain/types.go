// Package domain holds the research progress data model.
//
// Topics are the unit of tracked progress. A topic either carries its own
// point counter or delegates it to a list of locations, in which case the
// topic counters are derived aggregates. Thresholds mark progress milestones
// whose narrative payloads are revealed once reached.
package domain

import "time"

// Check is one skill/difficulty gate on a location. A nil DC matches any
// difficulty.
type Check struct {
	Skill string `json:"skill"`
	DC    *int   `json:"dc,omitempty"`
}

// ActorRef identifies an actor assigned to a location.
type ActorRef struct {
	UUID string `json:"uuid"`
	Name string `json:"name,omitempty"`
}

// Location is a sub-target of a topic with its own point budget.
type Location struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MaxPoints   int     `json:"maxPoints"`
	Collected   int     `json:"collected"`
	Checks      []Check `json:"checks"`
	Description string  `json:"description,omitempty"`

	// Skill and DC mirror the first Checks entry for readers that predate
	// the list form. Normalization keeps both shapes in sync.
	Skill string `json:"skill,omitempty"`
	DC    *int   `json:"dc,omitempty"`

	AssignedActors []ActorRef `json:"assignedActors,omitempty"`

	// IsRevealed is one-way: once true it is never reset except by an
	// explicit edit.
	IsRevealed bool       `json:"isRevealed"`
	RevealedAt *time.Time `json:"revealedAt,omitempty"`
}

// Threshold is a progress milestone on a topic.
type Threshold struct {
	ID         string     `json:"id"`
	Points     int        `json:"points"`
	GMText     string     `json:"gmText,omitempty"`
	PlayerText string     `json:"playerText,omitempty"`
	RevealedAt *time.Time `json:"revealedAt,omitempty"`
}

// Topic is a named unit of tracked research progress.
type Topic struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Progress and Target are independently settable only while the topic
	// has no locations; otherwise they are derived aggregates.
	Progress int `json:"progress"`
	Target   int `json:"target"`

	// Skill gates topic-level checks when the topic has no locations.
	Skill string `json:"skill,omitempty"`

	Locations  []Location  `json:"locations"`
	Thresholds []Threshold `json:"thresholds"`

	// RevealedThresholds records the reveal timestamp per threshold id.
	// Entries for removed thresholds are dropped during normalization.
	RevealedThresholds map[string]time.Time `json:"revealedThresholds,omitempty"`
}

// HasLocations reports whether topic progress is delegated to locations.
func (t Topic) HasLocations() bool {
	return len(t.Locations) > 0
}

// ProgressPercent returns progress as a percentage of target, clamped to
// [0,100]. A zero target yields zero.
func (t Topic) ProgressPercent() float64 {
	if t.Target <= 0 {
		return 0
	}
	percent := float64(t.Progress) / float64(t.Target) * 100
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// PrimaryCheck returns the first checks entry, the one mirrored onto the
// legacy skill/dc fields. The second return is false when the location has
// no checks.
func (l Location) PrimaryCheck() (Check, bool) {
	if len(l.Checks) == 0 {
		return Check{}, false
	}
	return l.Checks[0], true
}

// Location returns the location with the given id and whether it exists.
func (t Topic) Location(id string) (Location, bool) {
	for _, loc := range t.Locations {
		if loc.ID == id {
			return loc, true
		}
	}
	return Location{}, false
}

// Threshold returns the threshold with the given id and whether it exists.
func (t Topic) Threshold(id string) (Threshold, bool) {
	for _, th := range t.Thresholds {
		if th.ID == id {
			return th, true
		}
	}
	return Threshold{}, false
}

// Clone returns a deep copy of the topic. Mutating the copy never affects
// the receiver.
func (t Topic) Clone() Topic {
	clone := t
	if t.Locations != nil {
		clone.Locations = make([]Location, len(t.Locations))
		for i, loc := range t.Locations {
			clone.Locations[i] = loc.Clone()
		}
	}
	if t.Thresholds != nil {
		clone.Thresholds = make([]Threshold, len(t.Thresholds))
		for i, th := range t.Thresholds {
			clone.Thresholds[i] = th.Clone()
		}
	}
	if t.RevealedThresholds != nil {
		clone.RevealedThresholds = make(map[string]time.Time, len(t.RevealedThresholds))
		for id, at := range t.RevealedThresholds {
			clone.RevealedThresholds[id] = at
		}
	}
	return clone
}

// Clone returns a deep copy of the location.
func (l Location) Clone() Location {
	clone := l
	if l.Checks != nil {
		clone.Checks = make([]Check, len(l.Checks))
		for i, check := range l.Checks {
			clone.Checks[i] = check.Clone()
		}
	}
	if l.DC != nil {
		dc := *l.DC
		clone.DC = &dc
	}
	if l.AssignedActors != nil {
		clone.AssignedActors = append([]ActorRef(nil), l.AssignedActors...)
	}
	if l.RevealedAt != nil {
		at := *l.RevealedAt
		clone.RevealedAt = &at
	}
	return clone
}

// Clone returns a deep copy of the check.
func (c Check) Clone() Check {
	clone := c
	if c.DC != nil {
		dc := *c.DC
		clone.DC = &dc
	}
	return clone
}

// Clone returns a deep copy of the threshold.
func (t Threshold) Clone() Threshold {
	clone := t
	if t.RevealedAt != nil {
		at := *t.RevealedAt
		clone.RevealedAt = &at
	}
	return clone
}

