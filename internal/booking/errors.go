// Package booking implements the reservation core: the availability
// and spot-assignment algorithm, the Upcoming/Active/Completed/
// Cancelled lifecycle state machine, the per-(lot, date) booking
// ledger rules, billing, and the administrative lot/spot registry
// operations.  It is the sole mutator of spot status and ledger
// counters; HTTP handlers, schedulers and notification jobs only
// call into it.
package booking

import "errors"

// Sentinel errors returned by engine operations.  Handlers translate
// these into HTTP responses with errors.Is; anything else is treated
// as an internal failure.
var (
	// ErrInvalidInput is returned for malformed requests such as an
	// empty vehicle number or a zero identifier.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDate is returned when a reservation is requested for
	// a date in the past.
	ErrInvalidDate = errors.New("invalid date")

	// ErrCapacityExceeded is returned when no spot in the lot is free
	// for the requested date.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrInvalidTransition is returned when a lifecycle precondition
	// is violated, e.g. checking out a reservation that is not
	// active or cancelling one already in a terminal state.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrForbidden is returned when the caller does not own the
	// reservation being mutated and is not an administrator.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a referenced lot, spot or
	// reservation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrLotNotEmpty blocks lot deletion while any spot is occupied
	// or any reservation against the lot is non-terminal.
	ErrLotNotEmpty = errors.New("lot not empty")

	// ErrSpotsOccupied blocks a capacity shrink or spot removal that
	// would delete an occupied spot or one with reservation history.
	ErrSpotsOccupied = errors.New("spots occupied")
)
