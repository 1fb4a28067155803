package internal

import (
	"crypto/rand"
	"encoding/hex"
)

const (
	sessionTokenRawSize = 16
	resetTokenRawSize   = 24
)

// NewSessionToken mints an opaque bearer token: the given prefix followed by
// 16 random bytes, hex-encoded. The prefix is for identification in logs
// only; nothing about the token is parseable by clients.
func NewSessionToken(prefix string) (string, error) {
	var raw [sessionTokenRawSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}

	return prefix + hex.EncodeToString(raw[:]), nil
}

// NewResetToken mints a single-use password-reset token from 24 random
// bytes, hex-encoded.
func NewResetToken() (string, error) {
	var raw [resetTokenRawSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}

	return hex.EncodeToString(raw[:]), nil
}
