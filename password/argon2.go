package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Prefix = "$argon2id$"

	argon2SaltBytes = 16
	argon2KeyBytes  = 32

	// Stored hashes asking for more than this are rejected before any work
	// is done, so a tampered row cannot pin a CPU or exhaust memory.
	maxArgon2MemoryKiB = 1 << 20
	maxArgon2Time      = 16
)

var errMalformedArgon2 = errors.New("malformed argon2id hash")

// Argon2Params are the argon2id costs taken from PasswordConfig. Zero fields
// fall back to 64 MiB, 3 passes and 2 lanes.
type Argon2Params struct {
	MemoryKiB uint32
	Time      uint32
	Threads   uint8
}

func (p Argon2Params) withDefaults() Argon2Params {
	if p.MemoryKiB == 0 {
		p.MemoryKiB = 64 * 1024
	}
	if p.Time == 0 {
		p.Time = 3
	}
	if p.Threads == 0 {
		p.Threads = 2
	}
	return p
}

// Argon2 hashes passwords with argon2id. Salt and key sizes are fixed; only
// the cost parameters are tunable.
type Argon2 struct {
	params Argon2Params
}

func NewArgon2(p Argon2Params) (*Argon2, error) {
	p = p.withDefaults()
	if p.MemoryKiB < 8*1024 || p.MemoryKiB > maxArgon2MemoryKiB {
		return nil, fmt.Errorf("argon2id memory must be within [8192, %d] KiB", maxArgon2MemoryKiB)
	}
	if p.Time > maxArgon2Time {
		return nil, fmt.Errorf("argon2id time must be at most %d", maxArgon2Time)
	}
	return &Argon2{params: p}, nil
}

// Hash returns a PHC string with unpadded base64 salt and key.
func (a *Argon2) Hash(password string) (string, error) {
	if err := checkLength(password); err != nil {
		return "", err
	}
	salt := make([]byte, argon2SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	p := a.params
	key := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, argon2KeyBytes)

	var b strings.Builder
	fmt.Fprintf(&b, "%sv=%d$m=%d,t=%d,p=%d$", argon2Prefix, argon2.Version, p.MemoryKiB, p.Time, p.Threads)
	b.WriteString(base64.RawStdEncoding.EncodeToString(salt))
	b.WriteByte('$')
	b.WriteString(base64.RawStdEncoding.EncodeToString(key))
	return b.String(), nil
}

// Verify recomputes the key with the costs recorded in encodedHash, not the
// configured ones, so hashes made under older settings keep verifying.
func (a *Argon2) Verify(password, encodedHash string) (bool, error) {
	if len(password) > MaxPasswordBytes {
		return false, nil
	}
	p, salt, key, err := decodeArgon2(encodedHash)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(got, key) == 1, nil
}

func decodeArgon2(encoded string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params
	rest, ok := strings.CutPrefix(encoded, argon2Prefix)
	if !ok {
		return p, nil, nil, errMalformedArgon2
	}
	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return p, nil, nil, errMalformedArgon2
	}

	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil {
		return p, nil, nil, errMalformedArgon2
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}
	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, errMalformedArgon2
	}
	if p.MemoryKiB == 0 || p.MemoryKiB > maxArgon2MemoryKiB || p.Time == 0 || p.Time > maxArgon2Time || p.Threads == 0 {
		return p, nil, nil, errMalformedArgon2
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[2])
	if err != nil || len(salt) < argon2SaltBytes {
		return p, nil, nil, errMalformedArgon2
	}
	key, err := base64.RawStdEncoding.DecodeString(fields[3])
	if err != nil || len(key) < 16 {
		return p, nil, nil, errMalformedArgon2
	}
	return p, salt, key, nil
}
