package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"museumgate/config"

	qrcode "github.com/skip2/go-qrcode"
)

func qrSecret() []byte {
	secret := config.AppConfig.QRSecret
	if secret == "" {
		secret = "museumgate-qr-dev"
	}
	return []byte(secret)
}

// SignQRPayload appends an HMAC-SHA256 signature so door scanners can reject
// hand-crafted codes before any lookup happens.
func SignQRPayload(payload string) string {
	h := hmac.New(sha256.New, qrSecret())
	h.Write([]byte(payload))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return payload + "." + sig
}

// VerifyQRPayload strips and checks the signature, returning the raw payload.
func VerifyQRPayload(signed string) (string, error) {
	idx := strings.LastIndex(signed, ".")
	if idx <= 0 || idx == len(signed)-1 {
		return "", errors.New("missing signature")
	}
	payload, sig := signed[:idx], signed[idx+1:]

	h := hmac.New(sha256.New, qrSecret())
	h.Write([]byte(payload))
	expected := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", errors.New("invalid signature")
	}
	return payload, nil
}

// EncodeQRPNG renders a signed payload as a PNG image.
func EncodeQRPNG(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}
