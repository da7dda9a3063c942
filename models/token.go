package models

import "time"

// TokenKind is decided once, at issuance. Check-in routing branches on this
// tag rather than re-parsing the token id string.
type TokenKind string

const (
	TokenAdditional  TokenKind = "additional"
	TokenGroupMember TokenKind = "group_member"
	TokenGroupLeader TokenKind = "group_leader"
	TokenWalkIn      TokenKind = "walkin"
)

// Prefix returns the human-visible id prefix for the kind. The prefix is kept
// for operator legibility on printed codes; it carries no routing weight.
func (k TokenKind) Prefix() string {
	switch k {
	case TokenAdditional:
		return "ADD-"
	case TokenGroupMember:
		return "GROUP-"
	case TokenGroupLeader:
		return "LEAD-"
	case TokenWalkIn:
		return "WALK-"
	default:
		return "TOK-"
	}
}

// SupplementaryToken is a one-time link allowing a non-primary visitor to
// supply their own details after the primary visitor books on their behalf.
type SupplementaryToken struct {
	TokenID   string    `bson:"tokenId" json:"tokenId"`
	Kind      TokenKind `bson:"kind" json:"kind"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	VisitorID string    `bson:"visitorId" json:"visitorId"`
	Email     string    `bson:"email" json:"email"`
	IssuedAt  time.Time `bson:"issuedAt" json:"issuedAt"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	Completed bool      `bson:"completed" json:"completed"`
	Cancelled bool      `bson:"cancelled" json:"cancelled"`
}

// Expired reports whether the details form window has closed. Expiry only
// blocks the form; the visitor's QR remains valid for physical check-in.
func (t SupplementaryToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// TokenInfo is the resolve response: enough for the visitor to know when
// their visit is even when the form itself is no longer editable.
type TokenInfo struct {
	TokenID      string    `json:"tokenId"`
	Kind         TokenKind `json:"kind"`
	BookingID    string    `json:"bookingId"`
	VisitDate    string    `json:"visitDate"`
	SlotLabel    string    `json:"slotLabel"`
	PrimaryName  string    `json:"primaryName"`
	Institution  string    `json:"institution,omitempty"`
	Purpose      string    `json:"purpose,omitempty"`
	Email        string    `json:"email"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Completed    bool      `json:"completed"`
	FormEditable bool      `json:"formEditable"`

	// QRPayload is the signed check-in payload for this visitor, ready to be
	// rendered as a QR code client-side. Present as long as the booking is
	// alive; expiry of the form does not remove it.
	QRPayload string `json:"qrPayload,omitempty"`
}
