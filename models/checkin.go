package models

import "time"

// Check-in result codes. These are stable wire values the scanner UI keys
// its messages on; the "expected failure" codes are results, not errors.
const (
	CodeCheckedIn               = "checked_in"
	CodeAlreadyCheckedIn        = "already_checked_in"
	CodeCancelled               = "cancelled"
	CodeNotApproved             = "not_approved"
	CodeNotFound                = "not_found"
	CodeInvalidFormat           = "invalid_format"
	CodeUnknownType             = "unknown_type"
	CodeCollaboratorUnavailable = "collaborator_unavailable"
)

// CheckInResult is the single response shape shared by the QR dispatcher and
// the manual backup-code path, so the scanner UI renders both the same way.
type CheckInResult struct {
	Success     bool                `json:"success"`
	Code        string              `json:"code"`
	Message     string              `json:"message"`
	Visitor     *VisitorSummary     `json:"visitor,omitempty"`
	Participant *ParticipantSummary `json:"participant,omitempty"`
}

// VisitorSummary is what the door operator sees after a scan.
type VisitorSummary struct {
	VisitorID   string     `json:"visitorId"`
	BookingID   string     `json:"bookingId"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Date        string     `json:"date"`
	SlotLabel   string     `json:"slotLabel"`
	CheckinTime *time.Time `json:"checkinTime,omitempty"`
}

// ParticipantSummary mirrors the events collaborator's participant shape.
type ParticipantSummary struct {
	RegistrationID string     `json:"registrationId"`
	EventID        string     `json:"eventId"`
	Name           string     `json:"name"`
	CheckinTime    *time.Time `json:"checkinTime,omitempty"`
}

// CheckInPayload is the JSON shape embedded in visitor QR codes. Which fields
// are set depends on the type discriminator.
type CheckInPayload struct {
	Type           string `json:"type"`
	BookingID      string `json:"bookingId,omitempty"`
	VisitorID      string `json:"visitorId,omitempty"`
	TokenID        string `json:"tokenId,omitempty"`
	RegistrationID string `json:"registrationId,omitempty"`
	IsGroupLeader  bool   `json:"isGroupLeader,omitempty"`
}

// Payload type discriminators recognised by the dispatcher.
const (
	PayloadEventParticipant  = "event_participant"
	PayloadAdditionalVisitor = "additional_visitor"
	PayloadWalkinVisitor     = "walkin_visitor"
	PayloadPrimaryVisitor    = "primary_visitor"
)
