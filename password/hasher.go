package password

import (
	"errors"
	"strings"
)

const (
	MinPasswordBytes = 8
	// MaxPasswordBytes is bcrypt's input limit, applied to every algorithm so
	// switching algorithms never changes which passwords are accepted.
	MaxPasswordBytes = 72
)

var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	// ErrUnknownHashFormat is returned by Multi for hashes no algorithm claims.
	ErrUnknownHashFormat = errors.New("unknown password hash format")
)

// Hasher hashes new passwords and verifies candidates against stored hashes.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

func checkLength(password string) error {
	switch {
	case len(password) < MinPasswordBytes:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}

// Multi hashes with Primary and verifies with whichever algorithm produced
// the stored hash.
type Multi struct {
	Primary Hasher
	Bcrypt  *Bcrypt
	Argon2  *Argon2
}

func (m *Multi) Hash(password string) (string, error) {
	return m.Primary.Hash(password)
}

func (m *Multi) Verify(password, encodedHash string) (bool, error) {
	switch {
	case strings.HasPrefix(encodedHash, argon2Prefix) && m.Argon2 != nil:
		return m.Argon2.Verify(password, encodedHash)
	case isBcryptHash(encodedHash) && m.Bcrypt != nil:
		return m.Bcrypt.Verify(password, encodedHash)
	}
	return false, ErrUnknownHashFormat
}
