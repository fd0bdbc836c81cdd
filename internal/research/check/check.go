// Package check evaluates skill-check outcomes against a difficulty class.
package check

// Degree is the graded outcome of a skill check.
type Degree string

const (
	// DegreeCriticalFailure is a failure by 10 or more.
	DegreeCriticalFailure Degree = "criticalFailure"
	// DegreeFailure is a plain failure.
	DegreeFailure Degree = "failure"
	// DegreeSuccess is a plain success.
	DegreeSuccess Degree = "success"
	// DegreeCriticalSuccess is a success by 10 or more.
	DegreeCriticalSuccess Degree = "criticalSuccess"
)

// Valid reports whether the degree is one of the four graded outcomes.
func (d Degree) Valid() bool {
	switch d {
	case DegreeCriticalFailure, DegreeFailure, DegreeSuccess, DegreeCriticalSuccess:
		return true
	}
	return false
}

// MeetsDifficulty returns true if total >= difficulty.
func MeetsDifficulty(total, difficulty int) bool {
	return total >= difficulty
}

// Margin calculates the margin of success or failure.
// Positive values indicate success, negative indicate failure.
func Margin(total, difficulty int) int {
	return total - difficulty
}

// DegreeOf grades a roll total against a difficulty class.
//
// A margin of +10 or better upgrades success to critical success; -10 or
// worse downgrades failure to critical failure. A natural 20 on the die
// improves the degree by one step and a natural 1 worsens it by one step,
// with dieFace <= 0 meaning the natural value is unknown.
func DegreeOf(total, difficulty, dieFace int) Degree {
	margin := Margin(total, difficulty)

	var degree Degree
	switch {
	case margin >= 10:
		degree = DegreeCriticalSuccess
	case margin >= 0:
		degree = DegreeSuccess
	case margin <= -10:
		degree = DegreeCriticalFailure
	default:
		degree = DegreeFailure
	}

	switch dieFace {
	case 20:
		degree = upgrade(degree)
	case 1:
		degree = downgrade(degree)
	}
	return degree
}

func upgrade(degree Degree) Degree {
	switch degree {
	case DegreeCriticalFailure:
		return DegreeFailure
	case DegreeFailure:
		return DegreeSuccess
	case DegreeSuccess:
		return DegreeCriticalSuccess
	}
	return degree
}

func downgrade(degree Degree) Degree {
	switch degree {
	case DegreeCriticalSuccess:
		return DegreeSuccess
	case DegreeSuccess:
		return DegreeFailure
	case DegreeFailure:
		return DegreeCriticalFailure
	}
	return degree
}
