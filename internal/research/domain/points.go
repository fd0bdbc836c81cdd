package domain

import apperrors "github.com/louisbranch/lorekeeper/internal/errors"

// ErrTopicHasLocations indicates a direct point adjustment on a topic whose
// progress is derived from locations.
var ErrTopicHasLocations = apperrors.New(apperrors.CodeTopicHasLocations, "topic progress is derived from locations")

// ApplyTopicDelta returns a topic with progress shifted by delta.
//
// Progress is clamped at zero; there is no upper clamp, so progress may
// exceed target (displayed as 100%). Topics with locations reject direct
// adjustment: callers must target a specific location.
func ApplyTopicDelta(topic Topic, delta int) (Topic, int, int, error) {
	if topic.HasLocations() {
		return Topic{}, 0, 0, ErrTopicHasLocations
	}
	before := clampMin(topic.Progress, 0)
	after := clampMin(before+delta, 0)
	updated := topic.Clone()
	updated.Progress = after
	return updated, before, after, nil
}

// ApplyLocationDelta returns a location with collected points shifted by
// delta, clamped to [0, maxPoints] (or [0, inf) when maxPoints is zero).
func ApplyLocationDelta(loc Location, delta int) (Location, int, int) {
	before := ClampCollected(loc.Collected, loc.MaxPoints)
	after := ClampCollected(before+delta, loc.MaxPoints)
	updated := loc.Clone()
	updated.Collected = after
	return updated, before, after
}

func clampMin(value, min int) int {
	if value < min {
		return min
	}
	return value
}
