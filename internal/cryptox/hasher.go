package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/memodo/internal/common"
	"golang.org/x/crypto/argon2"
)

// Hasher names accepted by NewPasswordHasher.
const (
	HasherArgon2 = "argon2"
	HasherPlain  = "plain"
)

const argonPrefix = "$argon2id$"

var errMalformedHash = errors.New("malformed argon2 hash")

// PasswordHasher turns a lock password into the value stored on a note and
// checks candidates against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(stored, candidate string) (bool, error)
}

// NewPasswordHasher returns the hasher registered under name.
func NewPasswordHasher(name string) (PasswordHasher, error) {
	switch name {
	case "", HasherArgon2:
		return Argon2Hasher{}, nil
	case HasherPlain:
		return PlainHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// Argon2Hasher stores passwords in the PHC string form
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
// Stored values that do not parse as such, including plaintext that happens
// to start with "$argon2id$", are compared as plaintext so notes locked
// before hashing was enabled keep working.
type Argon2Hasher struct{}

func (Argon2Hasher) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(16)
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argonPrefix, argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (Argon2Hasher) Verify(stored, candidate string) (bool, error) {
	p, err := parseArgon2(stored)
	if err != nil {
		return PlainHasher{}.Verify(stored, candidate)
	}

	got := argon2.IDKey([]byte(candidate), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(got, p.key) == 1, nil
}

// Upper bounds for parameters read back from a stored hash. argon2.IDKey
// panics on zero time or threads and allocates memory KiB up front.
const (
	maxArgonTime   = 16
	maxArgonMemory = 1 << 20
	maxArgonKeyLen = 128
)

type argonParams struct {
	memory, time uint32
	threads      uint8
	salt, key    []byte
}

func parseArgon2(stored string) (argonParams, error) {
	var p argonParams
	if !strings.HasPrefix(stored, argonPrefix) {
		return p, errMalformedHash
	}

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		return p, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, fmt.Errorf("%w: %v", errMalformedHash, err)
	}
	if version != argon2.Version {
		return p, fmt.Errorf("%w: unsupported version %d", errMalformedHash, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, fmt.Errorf("%w: %v", errMalformedHash, err)
	}
	switch {
	case p.time == 0 || p.time > maxArgonTime:
		return p, fmt.Errorf("%w: time %d", errMalformedHash, p.time)
	case p.threads == 0:
		return p, fmt.Errorf("%w: parallelism 0", errMalformedHash)
	case p.memory < 8*uint32(p.threads) || p.memory > maxArgonMemory:
		return p, fmt.Errorf("%w: memory %d", errMalformedHash, p.memory)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.salt) == 0 {
		return p, fmt.Errorf("%w: salt", errMalformedHash)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.key) == 0 || len(p.key) > maxArgonKeyLen {
		return p, fmt.Errorf("%w: key", errMalformedHash)
	}
	return p, nil
}

// PlainHasher keeps the password as entered.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) {
	return password, nil
}

func (PlainHasher) Verify(stored, candidate string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, nil
}
