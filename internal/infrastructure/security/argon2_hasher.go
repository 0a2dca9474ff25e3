// Package security holds the credential adapters: an argon2id password hasher
// and an HMAC JWT token manager.
package security

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/notesapp/notes-api/internal/core/domain"
)

// Argon2Params are the argon2id cost parameters. Memory is in KiB.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params match the RFC 9106 second recommended option with four lanes.
var DefaultArgon2Params = Argon2Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Upper bounds accepted from a stored hash. Anything above is treated as
// malformed rather than run.
const (
	maxStoredMemory     = 1024 * 1024 // 1 GiB
	maxStoredIterations = 64
)

var errMalformedHash = errors.New("malformed argon2 hash")

// Argon2Hasher implements ports.PasswordHasher. Hashes are PHC encoded:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
//
// Legacy bcrypt hashes are still accepted by Verify and always need a rehash.
type Argon2Hasher struct {
	params Argon2Params
}

func NewArgon2Hasher(params Argon2Params) *Argon2Hasher {
	return &Argon2Hasher{params: params}
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	if err := h.params.validate(); err != nil {
		return "", &domain.HashingError{Err: err}
	}

	hash, err := argon2id.CreateHash(password, &argon2id.Params{
		Memory:      h.params.Memory,
		Iterations:  h.params.Iterations,
		Parallelism: h.params.Parallelism,
		SaltLength:  h.params.SaltLength,
		KeyLength:   h.params.KeyLength,
	})
	if err != nil {
		return "", &domain.HashingError{Err: err}
	}
	return hash, nil
}

func (h *Argon2Hasher) Verify(hash, password string) bool {
	if isBcrypt(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}

	if _, err := decodeArgon2(hash); err != nil {
		return false
	}
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	return err == nil && match
}

func (h *Argon2Hasher) NeedsRehash(hash string) bool {
	if isBcrypt(hash) {
		return true
	}

	p, err := decodeArgon2(hash)
	if err != nil {
		return true
	}
	return p.Memory < h.params.Memory ||
		p.Iterations < h.params.Iterations ||
		p.Parallelism < h.params.Parallelism ||
		p.SaltLength < h.params.SaltLength ||
		p.KeyLength < h.params.KeyLength
}

func (p Argon2Params) validate() error {
	switch {
	case p.Iterations < 1:
		return errors.New("argon2: iterations must be at least 1")
	case p.Parallelism < 1:
		return errors.New("argon2: parallelism must be at least 1")
	case p.Memory < 8*uint32(p.Parallelism):
		return fmt.Errorf("argon2: memory must be at least %d KiB", 8*uint32(p.Parallelism))
	case p.SaltLength < 8:
		return errors.New("argon2: salt must be at least 8 bytes")
	case p.KeyLength < 4:
		return errors.New("argon2: key must be at least 4 bytes")
	}
	return nil
}

// decodeArgon2 parses a stored hash with argon2id.DecodeHash and then insists
// on the canonical encoding: the version and parameter segments must
// round-trip exactly and the costs must be within the stored-hash bounds.
func decodeArgon2(encoded string) (*argon2id.Params, error) {
	params, salt, key, err := argon2id.DecodeHash(encoded)
	if err != nil {
		return nil, errMalformedHash
	}

	parts := strings.Split(encoded, "$")
	if parts[0] != "" || parts[1] != "argon2id" ||
		parts[2] != fmt.Sprintf("v=%d", argon2.Version) ||
		parts[3] != fmt.Sprintf("m=%d,t=%d,p=%d", params.Memory, params.Iterations, params.Parallelism) {
		return nil, errMalformedHash
	}

	switch {
	case params.Iterations < 1 || params.Iterations > maxStoredIterations,
		params.Parallelism < 1,
		params.Memory < 8*uint32(params.Parallelism) || params.Memory > maxStoredMemory,
		len(salt) == 0,
		len(key) == 0:
		return nil, errMalformedHash
	}
	return params, nil
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
