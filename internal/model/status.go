package model

// Status is the processing state of a record.
type Status string

// Record statuses, in lifecycle order.
const (
	StatusReceived  Status = "received"
	StatusCleaned   Status = "cleaned"
	StatusDelivered Status = "delivered"
)

// transitions lists the allowed next states for each state. Skipping the
// cleaned state is allowed; moving backwards is not.
var transitions = map[Status][]Status{
	StatusReceived: {StatusCleaned, StatusDelivered},
	StatusCleaned:  {StatusDelivered},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusReceived, StatusCleaned, StatusDelivered:
		return true
	}
	return false
}

// CanTransition reports whether a record in state from may move to state to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
