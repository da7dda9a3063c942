package models

// EmailPayload is the task body for a queued outbound email.
type EmailPayload struct {
	To       string            `json:"to"`
	Template string            `json:"template"`
	Subject  string            `json:"subject"`
	Data     map[string]string `json:"data,omitempty"`
}

// Email templates handled by the notification worker.
const (
	TemplateBookingConfirmation = "booking_confirmation"
	TemplateSupplementaryLink   = "supplementary_link"
	TemplateBookingCancelled    = "booking_cancelled"
	TemplateCheckInReceipt      = "checkin_receipt"
)
