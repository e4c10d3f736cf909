package jwt

import (
	"errors"

	gjwt "github.com/golang-jwt/jwt/v5"
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

// Audiences keep session and capability tokens in separate namespaces:
// a token minted for one never parses as the other.
const (
	AudienceSession  = "session"
	AudienceDownload = "download"
)

// SessionClaims is the closed claim set of access and refresh tokens.
// The subject email travels in the registered "sub" claim.
type SessionClaims struct {
	SubjectID string    `json:"id"`
	Role      string    `json:"role"`
	Type      TokenType `json:"type"`
	gjwt.RegisteredClaims
}

// Email returns the subject email carried in "sub".
func (c *SessionClaims) Email() string {
	return c.Subject
}

// Validate is invoked by the parser after the registered claims are checked.
func (c *SessionClaims) Validate() error {
	switch {
	case c.SubjectID == "":
		return errors.New("missing id claim")
	case c.Subject == "":
		return errors.New("missing sub claim")
	case c.Role == "":
		return errors.New("missing role claim")
	case c.Type != TypeAccess && c.Type != TypeRefresh:
		return errors.New("missing or unknown type claim")
	}
	return nil
}

// CapabilityClaims authorizes possession-based access to exactly one file.
type CapabilityClaims struct {
	Filename string `json:"filename"`
	gjwt.RegisteredClaims
}

func (c *CapabilityClaims) Validate() error {
	if c.Filename == "" {
		return errors.New("missing filename claim")
	}
	return nil
}
