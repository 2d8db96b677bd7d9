package booking

import "glowbook/models"

// Lifecycle transition graph. Cancelled is reachable from any non-terminal
// state; Completed and Cancelled are terminal. The deposit sub-state is
// tracked separately and never constrains these edges.
var transitions = map[models.BookingStatus]map[models.BookingStatus]struct{}{
	models.BookingPending: {
		models.BookingConfirmed: {},
		models.BookingCancelled: {},
	},
	models.BookingConfirmed: {
		models.BookingCompleted: {},
		models.BookingCancelled: {},
	},
	models.BookingCompleted: {},
	models.BookingCancelled: {},
}

// CanTransition returns whether a booking may move from one lifecycle status
// to another. Self-transitions are not allowed; the graph only moves forward.
func CanTransition(from, to models.BookingStatus) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(s models.BookingStatus) bool {
	return len(transitions[s]) == 0
}
