package stream

import "time"

// State is the lifecycle state of one provider call.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Settled reports whether the call has finished, successfully or not.
func (s State) Settled() bool {
	return s == Success || s == Error
}

// Status tracks one provider's progress through a resolution pass.
type Status struct {
	ProviderID  string    `json:"provider_id"`
	Name        string    `json:"name"`
	State       State     `json:"state"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	Message     string    `json:"message,omitempty"`
}
