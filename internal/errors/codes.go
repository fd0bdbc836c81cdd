package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Topic errors
	CodeTopicNotFound     Code = "TOPIC_NOT_FOUND"
	CodeTopicHasLocations Code = "TOPIC_HAS_LOCATIONS"

	// Location errors
	CodeLocationNotFound Code = "LOCATION_NOT_FOUND"

	// Check errors
	CodeCheckInvalidDegree Code = "CHECK_INVALID_DEGREE"
)
