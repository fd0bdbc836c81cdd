// Package journal holds the append-only progress journal.
//
// Entries record point changes and narrative events in timestamp order. They
// are never mutated after insertion; the only removal path is the cascade
// when a topic is deleted.
package journal

import (
	"encoding/json"
	"sort"
	"time"
)

// Entry is one immutable journal line.
type Entry struct {
	ID        string          `json:"id"`
	TopicID   string          `json:"topicId"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Points    *int            `json:"points,omitempty"`
	ActorUUID string          `json:"actorUuid,omitempty"`
	ActorName string          `json:"actorName,omitempty"`
	Roll      json.RawMessage `json:"roll,omitempty"`
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	clone := e
	if e.Points != nil {
		points := *e.Points
		clone.Points = &points
	}
	if e.Roll != nil {
		clone.Roll = append(json.RawMessage(nil), e.Roll...)
	}
	return clone
}

// Sort orders entries ascending by timestamp in place.
//
// The sort is stable so entries sharing a timestamp keep their insertion
// order; clock reads are expected to be monotonic but rapid successive
// writes must not reorder.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}

// Clone returns a deep copy of the entry slice.
func Clone(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, entry := range entries {
		out[i] = entry.Clone()
	}
	return out
}

// WithoutTopic returns the entries that do not reference the given topic.
func WithoutTopic(entries []Entry, topicID string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.TopicID == topicID {
			continue
		}
		out = append(out, entry)
	}
	return out
}
