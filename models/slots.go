package models

// TimeSlot represents one bookable visiting window on a given date.
type TimeSlot struct {
	ID       string `bson:"id" json:"id"`
	Date     string `bson:"date" json:"date"`         // e.g., "2025-10-22"
	Label    string `bson:"label" json:"time"`        // e.g., "09:00 - 10:00"
	Capacity int    `bson:"capacity" json:"capacity"` // total visitor units for the slot
	Booked   int    `bson:"booked" json:"booked"`     // units already reserved; 0 <= booked <= capacity
	Version  int    `bson:"version" json:"-"`
}

// Remaining returns the number of unreserved units in the slot.
func (s TimeSlot) Remaining() int {
	r := s.Capacity - s.Booked
	if r < 0 {
		return 0
	}
	return r
}

// SlotLabels is the fixed daily grid. The lunch window is part of the grid so
// the historical record stays uniform, but it is never bookable and never
// returned to clients.
var SlotLabels = []string{
	"09:00 - 10:00",
	"10:00 - 11:00",
	"11:00 - 12:00",
	"12:00 - 13:00",
	"13:00 - 14:00",
	"14:00 - 15:00",
	"15:00 - 16:00",
	"16:00 - 17:00",
}
