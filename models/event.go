package models

import "time"

// Event registration statuses as exposed by the events collaborator.
const (
	EventApprovalPending  = "pending"
	EventApprovalApproved = "approved"
	EventApprovalRejected = "rejected"

	EventCheckinPending   = "pending"
	EventCheckinCheckedIn = "checked_in"
	EventCheckinCancelled = "cancelled"
)

// EventCheckInResponse is the collaborator's reply to a check-in request.
// Its code values match the local check-in taxonomy.
type EventCheckInResponse struct {
	Code         string            `json:"code"`
	Registration EventRegistration `json:"registration"`
}

// EventRegistration mirrors the wire shape of the events collaborator. It is
// never persisted locally; the collaborator owns this record.
type EventRegistration struct {
	ID             string     `json:"id"`
	EventID        string     `json:"eventId"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email,omitempty"`
	ApprovalStatus string     `json:"approvalStatus"`
	CheckinStatus  string     `json:"checkinStatus"`
	CheckinTime    *time.Time `json:"checkinTime,omitempty"`
}
