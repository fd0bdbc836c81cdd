// Package domain defines the MCP tools and resources for research tracking.
package domain

import (
	"time"

	research "github.com/louisbranch/lorekeeper/internal/research/domain"
)

// CheckSpec is the wire form of a location gate check.
type CheckSpec struct {
	Skill string `json:"skill" jsonschema:"skill slug gating the check"`
	DC    *int   `json:"dc,omitempty" jsonschema:"optional difficulty class"`
}

// ActorSpec is the wire form of an actor assignment.
type ActorSpec struct {
	UUID string `json:"uuid" jsonschema:"actor identifier"`
	Name string `json:"name" jsonschema:"actor display name"`
}

// LocationSpec is the wire form of a location on input.
type LocationSpec struct {
	Name           string      `json:"name" jsonschema:"location name"`
	MaxPoints      int         `json:"max_points" jsonschema:"point budget, 0 for uncapped"`
	Collected      int         `json:"collected" jsonschema:"points already collected"`
	Checks         []CheckSpec `json:"checks,omitempty" jsonschema:"skill checks that gather points here"`
	Description    string      `json:"description,omitempty" jsonschema:"narrative shown on reveal"`
	AssignedActors []ActorSpec `json:"assigned_actors,omitempty" jsonschema:"actors pre-assigned to this location"`
}

// ThresholdSpec is the wire form of a reveal threshold on input.
type ThresholdSpec struct {
	Points     int    `json:"points" jsonschema:"progress required to unlock"`
	GMText     string `json:"gm_text,omitempty" jsonschema:"narrative for the GM"`
	PlayerText string `json:"player_text,omitempty" jsonschema:"narrative for the players"`
}

// CheckPayload is the wire form of a gate check in results.
type CheckPayload struct {
	Skill string `json:"skill"`
	DC    *int   `json:"dc,omitempty"`
}

// ActorPayload is the wire form of an actor assignment in results.
type ActorPayload struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// LocationPayload is the wire form of a location in results.
type LocationPayload struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	MaxPoints      int            `json:"max_points"`
	Collected      int            `json:"collected"`
	Checks         []CheckPayload `json:"checks"`
	Description    string         `json:"description,omitempty"`
	AssignedActors []ActorPayload `json:"assigned_actors,omitempty"`
	IsRevealed     bool           `json:"is_revealed"`
	RevealedAt     string         `json:"revealed_at,omitempty"`
}

// ThresholdPayload is the wire form of a threshold in results.
type ThresholdPayload struct {
	ID         string `json:"id"`
	Points     int    `json:"points"`
	GMText     string `json:"gm_text,omitempty"`
	PlayerText string `json:"player_text,omitempty"`
	RevealedAt string `json:"revealed_at,omitempty"`
}

// TopicPayload is the wire form of a topic in results.
type TopicPayload struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Progress        int                `json:"progress"`
	Target          int                `json:"target"`
	ProgressPercent float64            `json:"progress_percent"`
	Skill           string             `json:"skill,omitempty"`
	Locations       []LocationPayload  `json:"locations"`
	Thresholds      []ThresholdPayload `json:"thresholds"`
	Revealed        map[string]string  `json:"revealed_thresholds,omitempty"`
}

func checksFromSpec(specs []CheckSpec) []research.Check {
	out := make([]research.Check, len(specs))
	for i, spec := range specs {
		out[i] = research.Check{Skill: spec.Skill, DC: spec.DC}
	}
	return out
}

func actorsFromSpec(specs []ActorSpec) []research.ActorRef {
	out := make([]research.ActorRef, len(specs))
	for i, spec := range specs {
		out[i] = research.ActorRef{UUID: spec.UUID, Name: spec.Name}
	}
	return out
}

func locationFromSpec(spec LocationSpec) research.Location {
	return research.Location{
		Name:           spec.Name,
		MaxPoints:      spec.MaxPoints,
		Collected:      spec.Collected,
		Checks:         checksFromSpec(spec.Checks),
		Description:    spec.Description,
		AssignedActors: actorsFromSpec(spec.AssignedActors),
	}
}

func locationsFromSpec(specs []LocationSpec) []research.Location {
	out := make([]research.Location, len(specs))
	for i, spec := range specs {
		out[i] = locationFromSpec(spec)
	}
	return out
}

func thresholdsFromSpec(specs []ThresholdSpec) []research.Threshold {
	out := make([]research.Threshold, len(specs))
	for i, spec := range specs {
		out[i] = research.Threshold{Points: spec.Points, GMText: spec.GMText, PlayerText: spec.PlayerText}
	}
	return out
}

func locationPayload(loc research.Location) LocationPayload {
	checks := make([]CheckPayload, len(loc.Checks))
	for i, c := range loc.Checks {
		checks[i] = CheckPayload{Skill: c.Skill, DC: c.DC}
	}
	var actors []ActorPayload
	for _, actor := range loc.AssignedActors {
		actors = append(actors, ActorPayload{UUID: actor.UUID, Name: actor.Name})
	}
	return LocationPayload{
		ID:             loc.ID,
		Name:           loc.Name,
		MaxPoints:      loc.MaxPoints,
		Collected:      loc.Collected,
		Checks:         checks,
		Description:    loc.Description,
		AssignedActors: actors,
		IsRevealed:     loc.IsRevealed,
		RevealedAt:     formatTime(loc.RevealedAt),
	}
}

func topicPayload(topic research.Topic) TopicPayload {
	locations := make([]LocationPayload, len(topic.Locations))
	for i, loc := range topic.Locations {
		locations[i] = locationPayload(loc)
	}
	thresholds := make([]ThresholdPayload, len(topic.Thresholds))
	for i, th := range topic.Thresholds {
		thresholds[i] = ThresholdPayload{
			ID:         th.ID,
			Points:     th.Points,
			GMText:     th.GMText,
			PlayerText: th.PlayerText,
			RevealedAt: formatTime(th.RevealedAt),
		}
	}
	var revealed map[string]string
	if len(topic.RevealedThresholds) > 0 {
		revealed = make(map[string]string, len(topic.RevealedThresholds))
		for id, at := range topic.RevealedThresholds {
			revealed[id] = at.Format(time.RFC3339)
		}
	}
	return TopicPayload{
		ID:              topic.ID,
		Name:            topic.Name,
		Progress:        topic.Progress,
		Target:          topic.Target,
		ProgressPercent: topic.ProgressPercent(),
		Skill:           topic.Skill,
		Locations:       locations,
		Thresholds:      thresholds,
		Revealed:        revealed,
	}
}

// formatTime returns an RFC3339 timestamp or empty string.
func formatTime(at *time.Time) string {
	if at == nil {
		return ""
	}
	return at.Format(time.RFC3339)
}
