package booking

import "errors"

var (
	// ErrSlotFull means the requested visitor count no longer fits the slot.
	ErrSlotFull = errors.New("slot is fully booked")
	// ErrSlotNotBookable means the slot is closed to bookings (lunch hour).
	ErrSlotNotBookable = errors.New("slot is not bookable")
	// ErrNotFound means no booking matches the id.
	ErrNotFound = errors.New("booking not found")
	// ErrInvalidTransition means the booking is not in the state the
	// requested lifecycle action needs.
	ErrInvalidTransition = errors.New("invalid booking status transition")
)
