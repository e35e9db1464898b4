package query

import "time"

// Status is the tri-state of a query plus the idle state before any fetch.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is a point-in-time view of one cache entry. Data holds the last
// successful value even while a refetch is loading or after an error.
type Snapshot struct {
	Status    Status
	Data      any
	Err       error
	Stale     bool
	UpdatedAt time.Time
}
