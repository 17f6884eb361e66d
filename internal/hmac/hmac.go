package hmac

import (
	cryptoHMAC "crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// ErrEmptyKey is returned when creating an HMAC without a key
var ErrEmptyKey = errors.New("hmac key is empty")

// HMAC is a utility for signing and verifying request URLs
type HMAC struct {
	Key []byte
}

// New returns an HMAC for key
func New(key []byte) (*HMAC, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	return &HMAC{Key: key}, nil
}

// Create creates a SHA-256 HMAC of message, encoded as unpadded urlsafe base64
func (h *HMAC) Create(message string) (string, error) {
	mac := cryptoHMAC.New(sha256.New, h.Key)

	if _, err := mac.Write([]byte(message)); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Validate reports whether mac is the HMAC of message
func (h *HMAC) Validate(message, mac string) (bool, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(mac)
	if err != nil {
		return false, nil
	}

	expected := cryptoHMAC.New(sha256.New, h.Key)
	if _, err := expected.Write([]byte(message)); err != nil {
		return false, err
	}

	return cryptoHMAC.Equal(decoded, expected.Sum(nil)), nil
}
