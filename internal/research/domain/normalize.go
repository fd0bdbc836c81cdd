package domain

import (
	"sort"
	"strings"
	"time"
)

const (
	// DefaultTopicName substitutes a blank topic name.
	DefaultTopicName = "Unnamed Topic"
	// DefaultLocationName substitutes a blank location name.
	DefaultLocationName = "Unnamed Location"
)

// IDFunc supplies fresh identifiers during normalization. It must never
// return an empty string.
type IDFunc func() string

// NormalizeTopic coerces an arbitrarily-shaped topic into canonical form.
//
// It is total (malformed values are replaced with defaults, never rejected)
// and idempotent: normalizing an already-normalized topic yields a deep-equal
// topic. Ids are generated only for blank fields; existing ids are never
// regenerated.
func NormalizeTopic(topic Topic, newID IDFunc) Topic {
	out := topic.Clone()

	out.ID = normalizeID(out.ID, newID)
	out.Name = defaultString(out.Name, DefaultTopicName)
	out.Skill = NormalizeSkillSlug(out.Skill)

	for i := range out.Locations {
		out.Locations[i] = normalizeLocation(out.Locations[i], newID)
	}

	out.Thresholds = normalizeThresholds(out.Thresholds, newID)
	out.RevealedThresholds = reconcileRevealed(out.Thresholds, out.RevealedThresholds)
	for i := range out.Thresholds {
		if at, ok := out.RevealedThresholds[out.Thresholds[i].ID]; ok {
			revealedAt := at
			out.Thresholds[i].RevealedAt = &revealedAt
		}
	}

	if out.HasLocations() {
		out.Target, out.Progress = deriveAggregate(out.Locations)
	} else {
		out.Target = clampMin(out.Target, 0)
		out.Progress = clampMin(out.Progress, 0)
	}

	return out
}

// NormalizeSkillSlug canonicalizes a skill identifier for matching.
func NormalizeSkillSlug(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

func normalizeLocation(loc Location, newID IDFunc) Location {
	out := loc.Clone()

	out.ID = normalizeID(out.ID, newID)
	out.Name = defaultString(out.Name, DefaultLocationName)
	out.MaxPoints = clampMin(out.MaxPoints, 0)
	out.Collected = ClampCollected(out.Collected, out.MaxPoints)

	out.Checks = normalizeChecks(out.Checks, out.Skill, out.DC)
	if primary, ok := out.PrimaryCheck(); ok {
		out.Skill = primary.Skill
		out.DC = nil
		if primary.DC != nil {
			dc := *primary.DC
			out.DC = &dc
		}
	} else {
		out.Skill = ""
		out.DC = nil
	}

	out.AssignedActors = dedupeActors(out.AssignedActors)

	// Reveal state is one-way: an isRevealed flag without a timestamp gains
	// one lazily via the store, never here, so normalization stays pure.
	if out.RevealedAt != nil {
		out.IsRevealed = true
	}

	return out
}

// normalizeChecks migrates the legacy single skill/dc shape into the checks
// list and scrubs unusable entries. Entry order is preserved; the first
// entry is the primary check.
func normalizeChecks(checks []Check, legacySkill string, legacyDC *int) []Check {
	out := make([]Check, 0, len(checks)+1)
	for _, check := range checks {
		check.Skill = NormalizeSkillSlug(check.Skill)
		if check.Skill == "" {
			continue
		}
		out = append(out, check.Clone())
	}

	if len(out) == 0 {
		if slug := NormalizeSkillSlug(legacySkill); slug != "" {
			migrated := Check{Skill: slug}
			if legacyDC != nil {
				dc := *legacyDC
				migrated.DC = &dc
			}
			out = append(out, migrated)
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeThresholds assigns missing ids and sorts ascending by points.
// Ties keep their original insertion order.
func normalizeThresholds(thresholds []Threshold, newID IDFunc) []Threshold {
	if len(thresholds) == 0 {
		return thresholds
	}
	out := make([]Threshold, len(thresholds))
	for i, th := range thresholds {
		out[i] = th.Clone()
		out[i].ID = normalizeID(out[i].ID, newID)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points < out[j].Points
	})
	return out
}

// reconcileRevealed merges the revealed-id set with per-threshold timestamps
// and drops entries whose threshold no longer exists. Timestamps are never
// cleared once set.
func reconcileRevealed(thresholds []Threshold, revealed map[string]time.Time) map[string]time.Time {
	out := make(map[string]time.Time, len(revealed))
	for _, th := range thresholds {
		if at, ok := revealed[th.ID]; ok {
			out[th.ID] = at
			continue
		}
		if th.RevealedAt != nil {
			out[th.ID] = *th.RevealedAt
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// dedupeActors removes duplicate assignments by uuid, preferring the entry
// that carries a display name. First occurrence wins otherwise.
func dedupeActors(actors []ActorRef) []ActorRef {
	if len(actors) == 0 {
		return nil
	}
	out := make([]ActorRef, 0, len(actors))
	index := make(map[string]int, len(actors))
	for _, actor := range actors {
		uuid := strings.TrimSpace(actor.UUID)
		if uuid == "" {
			continue
		}
		actor.UUID = uuid
		actor.Name = strings.TrimSpace(actor.Name)
		if at, ok := index[uuid]; ok {
			if out[at].Name == "" && actor.Name != "" {
				out[at].Name = actor.Name
			}
			continue
		}
		index[uuid] = len(out)
		out = append(out, actor)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func deriveAggregate(locations []Location) (target, progress int) {
	collected := 0
	for _, loc := range locations {
		target += clampMin(loc.MaxPoints, 0)
		collected += clampMin(loc.Collected, 0)
	}
	progress = collected
	if progress > target {
		progress = target
	}
	return target, progress
}

// ClampCollected bounds a collected value to [0, maxPoints], or [0, inf)
// when maxPoints is zero (unlimited capacity).
func ClampCollected(collected, maxPoints int) int {
	if collected < 0 {
		return 0
	}
	if maxPoints > 0 && collected > maxPoints {
		return maxPoints
	}
	return collected
}

func normalizeID(value string, newID IDFunc) string {
	trimmed := strings.TrimSpace(value)
	if trimmed != "" {
		return trimmed
	}
	if newID == nil {
		return ""
	}
	return newID()
}

func defaultString(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
