package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestSignAndVerifyQRPayload(t *testing.T) {
	payload := `{"type":"primary_visitor","bookingId":"b1","visitorId":"v1"}`

	signed := SignQRPayload(payload)
	if signed == payload {
		t.Fatal("signing produced no signature")
	}
	if !strings.HasPrefix(signed, payload+".") {
		t.Fatalf("signed form %q does not embed the payload", signed)
	}

	got, err := VerifyQRPayload(signed)
	if err != nil {
		t.Fatalf("VerifyQRPayload() error = %v", err)
	}
	if got != payload {
		t.Errorf("payload = %q, want %q", got, payload)
	}
}

func TestVerifyQRPayloadRejectsTampering(t *testing.T) {
	signed := SignQRPayload(`{"type":"walkin_visitor","visitorId":"v9"}`)

	tests := []struct {
		name  string
		input string
	}{
		{"altered payload", strings.Replace(signed, "v9", "v1", 1)},
		{"truncated signature", signed[:len(signed)-2]},
		{"no signature", `{"type":"walkin_visitor","visitorId":"v9"}`},
		{"empty", ""},
		{"bare dot", "."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := VerifyQRPayload(tc.input); err == nil {
				t.Errorf("VerifyQRPayload(%q) accepted a bad input", tc.input)
			}
		})
	}
}

func TestEncodeQRPNG(t *testing.T) {
	png, err := EncodeQRPNG(SignQRPayload("hello"), 256)
	if err != nil {
		t.Fatalf("EncodeQRPNG() error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}
