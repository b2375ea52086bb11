package model

// AttemptStatus represents the outcome of one reduction attempt.
type AttemptStatus int

const (
	// Accepted indicates the reduced shader stayed interesting.
	Accepted AttemptStatus = iota
	// Rejected indicates the reduced shader lost the behavior of interest.
	Rejected
	// Skipped indicates the marker was not reversible.
	Skipped
	// Error indicates the oracle could not be run.
	Error
)

// Attempt records the result of reversing a single marker. Errors are
// carried as text so attempts survive gob encoding in the spill log.
type Attempt struct {
	MarkerID uint64
	Kind     MarkerKind
	Status   AttemptStatus
	Output   string
	Err      string
}

// Result groups attempt outcomes by marker kind.
type Result map[MarkerKind][]Attempt

// Report represents the outcome of reducing one job.
type Report struct {
	Job      string
	JobFile  Path
	Attempts Result
	// Remaining counts the markers still present after reduction.
	Remaining int
	// Diff is a unified diff from the original to the reduced shader text.
	Diff string
}
