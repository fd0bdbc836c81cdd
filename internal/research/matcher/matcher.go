// Package matcher resolves finished skill checks to progress targets.
//
// Resolution is deliberately conservative: when more than one target could
// plausibly receive the points, the matcher abstains with a diagnostic
// instead of guessing. Pre-assigned actors narrow the field first; fully
// open locations are the fallback tier.
package matcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/louisbranch/lorekeeper/internal/research/check"
	"github.com/louisbranch/lorekeeper/internal/research/domain"
	"github.com/louisbranch/lorekeeper/internal/research/tracker"
)

// ActorKindCharacter is the actor kind eligible for automatic matching.
const ActorKindCharacter = "character"

// Actor identifies who rolled the check.
type Actor struct {
	UUID               string
	Name               string
	Kind               string
	IsPlayerControlled bool
}

// CheckEvent is one finished skill check delivered by the outcome source.
type CheckEvent struct {
	// ID is a stable identifier used to drop re-delivered events.
	ID        string
	SkillSlug string
	Degree    check.Degree
	DC        *int
	Actor     Actor
	Roll      json.RawMessage
}

// Matcher applies skill-check outcomes to the tracker.
type Matcher struct {
	svc    *tracker.Service
	logger *log.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// New constructs a matcher over the tracker service.
func New(svc *tracker.Service, logger *log.Logger) *Matcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Matcher{
		svc:    svc,
		logger: logger,
		seen:   make(map[string]struct{}),
	}
}

// DeltaForDegree maps an outcome degree to its signed point delta.
//
// Plain failure is a zero-point no-op while critical failure regresses by
// one; the asymmetry is game-design tuning carried over intact, not a bug.
func DeltaForDegree(degree check.Degree) int {
	switch degree {
	case check.DegreeCriticalSuccess:
		return 2
	case check.DegreeSuccess:
		return 1
	case check.DegreeCriticalFailure:
		return -1
	default:
		return 0
	}
}

// candidate is one possible target for an event's points.
type candidate struct {
	topicID       string
	locationID    string // empty for a topic-level match
	hasAssignees  bool
	actorAssigned bool
}

// HandleCheck resolves and applies one skill-check event.
//
// The applied return is false whenever the matcher abstains: unknown
// skill, non-player actor, zero-delta outcome, no candidates, an
// ambiguous candidate set, or a re-delivered event id.
func (m *Matcher) HandleCheck(ctx context.Context, event CheckEvent) (applied bool, err error) {
	if event.ID != "" {
		m.mu.Lock()
		if _, dup := m.seen[event.ID]; dup {
			m.mu.Unlock()
			return false, nil
		}
		m.seen[event.ID] = struct{}{}
		m.mu.Unlock()
	}

	slug := domain.NormalizeSkillSlug(event.SkillSlug)
	if slug == "" {
		return false, nil
	}
	if event.Actor.Kind != ActorKindCharacter || !event.Actor.IsPlayerControlled {
		return false, nil
	}
	if !event.Degree.Valid() {
		m.logger.Printf("check %s has unknown outcome degree %q", event.ID, event.Degree)
		return false, nil
	}
	delta := DeltaForDegree(event.Degree)
	if delta == 0 {
		return false, nil
	}

	target, ok := m.resolve(slug, event.DC, event.Actor.UUID)
	if !ok {
		return false, nil
	}

	meta := tracker.Metadata{
		Reason:    reasonFor(slug, event.Degree),
		ActorUUID: event.Actor.UUID,
		ActorName: event.Actor.Name,
		Roll:      event.Roll,
	}

	if target.locationID != "" {
		applied, err = m.svc.AdjustLocationPoints(ctx, target.topicID, target.locationID, delta, meta)
	} else {
		applied, err = m.svc.AdjustPoints(ctx, target.topicID, delta, meta)
	}
	if err != nil && event.ID != "" {
		// Leave the event replayable when the write did not land.
		m.mu.Lock()
		delete(m.seen, event.ID)
		m.mu.Unlock()
	}
	return applied, err
}

// resolve builds the candidate set and applies the two-tier precedence:
// a single assignment match wins outright; otherwise a single open match
// does. Two or more matches in the deciding tier abstain with a warning.
func (m *Matcher) resolve(slug string, dc *int, actorUUID string) (candidate, bool) {
	candidates := m.collect(slug, dc, actorUUID)

	var assignment, open []candidate
	for _, c := range candidates {
		switch {
		case c.hasAssignees && c.actorAssigned:
			assignment = append(assignment, c)
		case !c.hasAssignees:
			open = append(open, c)
		}
		// Locations assigned to other actors are out of the running.
	}

	if len(assignment) == 1 {
		return assignment[0], true
	}
	if len(assignment) > 1 {
		m.logger.Printf("skill %q: actor %s assigned to %d matching locations, abstaining", slug, actorUUID, len(assignment))
		return candidate{}, false
	}
	if len(open) == 1 {
		return open[0], true
	}
	if len(open) > 1 {
		m.logger.Printf("skill %q: %d open matching targets, abstaining", slug, len(open))
		return candidate{}, false
	}
	return candidate{}, false
}

// collect gathers every topic or location gated by the skill. A location
// matches when any of its checks carries the slug and either has no DC or
// equals the event DC exactly. Topics without locations match purely on
// the topic-level skill.
func (m *Matcher) collect(slug string, dc *int, actorUUID string) []candidate {
	var out []candidate
	for _, topic := range m.svc.Topics() {
		if !topic.HasLocations() {
			if topic.Skill == slug {
				out = append(out, candidate{topicID: topic.ID})
			}
			continue
		}
		for _, loc := range topic.Locations {
			if !locationMatches(loc, slug, dc) {
				continue
			}
			out = append(out, candidate{
				topicID:       topic.ID,
				locationID:    loc.ID,
				hasAssignees:  len(loc.AssignedActors) > 0,
				actorAssigned: actorIsAssigned(loc, actorUUID),
			})
		}
	}
	return out
}

func locationMatches(loc domain.Location, slug string, dc *int) bool {
	for _, c := range loc.Checks {
		if c.Skill != slug {
			continue
		}
		if c.DC == nil {
			return true
		}
		if dc != nil && *c.DC == *dc {
			return true
		}
	}
	return false
}

func actorIsAssigned(loc domain.Location, actorUUID string) bool {
	if actorUUID == "" {
		return false
	}
	for _, actor := range loc.AssignedActors {
		if actor.UUID == actorUUID {
			return true
		}
	}
	return false
}

var titleCaser = cases.Title(language.English)

func reasonFor(slug string, degree check.Degree) string {
	return fmt.Sprintf("Automatic: %s check (%s)", titleCaser.String(slug), degreeLabel(degree))
}

func degreeLabel(degree check.Degree) string {
	switch degree {
	case check.DegreeCriticalSuccess:
		return "Critical Success"
	case check.DegreeSuccess:
		return "Success"
	case check.DegreeFailure:
		return "Failure"
	case check.DegreeCriticalFailure:
		return "Critical Failure"
	}
	return string(degree)
}
