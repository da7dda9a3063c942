package models

import "time"

// BookingKind distinguishes individual from group reservations.
type BookingKind string

const (
	BookingIndividual BookingKind = "individual"
	BookingGroup      BookingKind = "group"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingCheckedIn BookingStatus = "checked_in"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking represents one reservation against a slot, covering one or more visitors.
// The booking owns its visitor list exclusively; visitors are embedded.
type Booking struct {
	ID        string        `bson:"id" json:"id"`
	Kind      BookingKind   `bson:"kind" json:"kind"`
	Date      string        `bson:"date" json:"date"`
	SlotLabel string        `bson:"slotLabel" json:"slotLabel"`
	Status    BookingStatus `bson:"status" json:"status"`
	WalkIn    bool          `bson:"walkIn,omitempty" json:"walkIn,omitempty"`
	Visitors  []Visitor     `bson:"visitors" json:"visitors"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

// TotalVisitors is the number of capacity units this booking consumes.
func (b Booking) TotalVisitors() int {
	return len(b.Visitors)
}

// Primary returns the primary visitor, or nil if the booking has none.
func (b Booking) Primary() *Visitor {
	for i := range b.Visitors {
		if b.Visitors[i].IsPrimary {
			return &b.Visitors[i]
		}
	}
	return nil
}

// VisitorByID returns the embedded visitor with the given id, or nil.
func (b Booking) VisitorByID(visitorID string) *Visitor {
	for i := range b.Visitors {
		if b.Visitors[i].ID == visitorID {
			return &b.Visitors[i]
		}
	}
	return nil
}

// Visitor belongs to exactly one booking.
type Visitor struct {
	ID               string     `bson:"id" json:"id"`
	FirstName        string     `bson:"firstName" json:"firstName"`
	LastName         string     `bson:"lastName" json:"lastName"`
	Gender           string     `bson:"gender,omitempty" json:"gender,omitempty"`
	Nationality      string     `bson:"nationality,omitempty" json:"nationality,omitempty"`
	Address          string     `bson:"address,omitempty" json:"address,omitempty"`
	Email            string     `bson:"email,omitempty" json:"email,omitempty"`
	Institution      string     `bson:"institution,omitempty" json:"institution,omitempty"`
	Purpose          string     `bson:"purpose,omitempty" json:"purpose,omitempty"`
	IsPrimary        bool       `bson:"isPrimary" json:"isPrimary"`
	DetailsCompleted bool       `bson:"detailsCompleted" json:"detailsCompleted"`
	CheckinTime      *time.Time `bson:"checkinTime,omitempty" json:"checkinTime,omitempty"`
}

// VisitorDetails is the subset a co-visitor may supply about themselves.
// Institution and purpose are always inherited from the primary visitor and
// are deliberately absent here.
type VisitorDetails struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Gender      string `json:"gender"`
	Nationality string `json:"nationality"`
	Address     string `json:"address"`
	Email       string `json:"email"`
}

// BookVisitorInput is the wire shape for a visitor in a booking request.
type BookVisitorInput struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Gender      string `json:"gender"`
	Nationality string `json:"nationality"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	Institution string `json:"institution"`
	Purpose     string `json:"purpose"`
}

// CreateBookingRequest is the payload for POST /api/slots/book.
type CreateBookingRequest struct {
	Kind         BookingKind        `json:"kind" binding:"required"`
	Date         string             `json:"date" binding:"required"`
	SlotLabel    string             `json:"slotLabel" binding:"required"`
	MainVisitor  BookVisitorInput   `json:"mainVisitor" binding:"required"`
	GroupMembers []BookVisitorInput `json:"groupMembers"`
}
