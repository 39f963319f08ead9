package checkout

// State is the position of a till in the finalisation cycle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateAwaitingConfirmation
	StateSubmitting
	StateCompleted
)

var stateNames = map[State]string{
	StateIdle:                 "idle",
	StateValidating:           "validating",
	StateAwaitingConfirmation: "awaiting_confirmation",
	StateSubmitting:           "submitting",
	StateCompleted:            "completed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
