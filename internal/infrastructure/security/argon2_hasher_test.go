package security

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/notesapp/notes-api/internal/core/domain"
)

var testParams = Argon2Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestArgon2Hasher_HashAndVerify(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	for _, password := range []string{"pw123456", "", "ünïcødé pässwörd", strings.Repeat("x", 256)} {
		hash, err := h.Hash(password)
		if err != nil {
			t.Fatalf("Hash(%q) returned error: %v", password, err)
		}
		if hash == password {
			t.Fatalf("hash must not equal the password")
		}
		if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
			t.Fatalf("unexpected encoding: %s", hash)
		}
		if !h.Verify(hash, password) {
			t.Fatalf("Verify rejected the original password %q", password)
		}
	}
}

func TestArgon2Hasher_SaltsDiffer(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected distinct salts to produce distinct hashes")
	}
}

func TestArgon2Hasher_VerifyRejects(t *testing.T) {
	h := NewArgon2Hasher(testParams)
	hash, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	cases := map[string]string{
		"wrong password":   hash,
		"empty hash":       "",
		"garbage":          "not-a-hash",
		"wrong variant":    strings.Replace(hash, "argon2id", "argon2i", 1),
		"bad params":       "$argon2id$v=19$m=abc,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"zero parallelism": "$argon2id$v=19$m=1024,t=1,p=0$c2FsdHNhbHQ$a2V5a2V5",
		"bad salt":         "$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5a2V5",
		"truncated":        hash[:len(hash)/2],
		"version suffix":   strings.Replace(hash, "$v=19$", "$v=19trailing$", 1),
		"params suffix":    strings.Replace(hash, "$m=1024,t=1,p=1$", "$m=1024,t=1,p=1junk$", 1),
		"padded params":    strings.Replace(hash, "$m=1024,t=1,p=1$", "$m=01024,t=1,p=1$", 1),
		"huge memory":      strings.Replace(hash, "$m=1024,", "$m=4294967295,", 1),
		"huge iterations":  strings.Replace(hash, ",t=1,", ",t=4294967295,", 1),
	}
	for name, candidate := range cases {
		password := "battery staple"
		if name != "wrong password" {
			password = "correct horse"
		}
		if h.Verify(candidate, password) {
			t.Fatalf("%s: expected Verify to return false", name)
		}
	}
}

func TestArgon2Hasher_InvalidParams(t *testing.T) {
	cases := map[string]Argon2Params{
		"zero iterations":   {Memory: 1024, Iterations: 0, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		"zero parallelism":  {Memory: 1024, Iterations: 1, Parallelism: 0, SaltLength: 16, KeyLength: 32},
		"too little memory": {Memory: 7, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		"short salt":        {Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 4, KeyLength: 32},
	}
	for name, params := range cases {
		_, err := NewArgon2Hasher(params).Hash("pw")
		var hashingErr *domain.HashingError
		if !errors.As(err, &hashingErr) {
			t.Fatalf("%s: expected HashingError, got %v", name, err)
		}
	}
}

func TestArgon2Hasher_NeedsRehash(t *testing.T) {
	current := NewArgon2Hasher(testParams)
	hash, _ := current.Hash("pw")
	if current.NeedsRehash(hash) {
		t.Fatalf("hash with current params must not need a rehash")
	}

	stronger := testParams
	stronger.Iterations = 2
	if !NewArgon2Hasher(stronger).NeedsRehash(hash) {
		t.Fatalf("hash weaker than defaults must need a rehash")
	}

	weaker := testParams
	weaker.Memory = 512
	if NewArgon2Hasher(weaker).NeedsRehash(hash) {
		t.Fatalf("hash stronger than defaults must not need a rehash")
	}

	if !current.NeedsRehash("garbage") {
		t.Fatalf("malformed hash must need a rehash")
	}
	if !current.NeedsRehash(strings.Replace(hash, "$m=1024,t=1,p=1$", "$m=1024,t=1,p=1junk$", 1)) {
		t.Fatalf("non-canonical hash must need a rehash")
	}
}

func TestArgon2Hasher_LegacyBcrypt(t *testing.T) {
	h := NewArgon2Hasher(testParams)
	legacy, err := bcrypt.GenerateFromPassword([]byte("old-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	if !h.Verify(string(legacy), "old-secret") {
		t.Fatalf("expected legacy bcrypt hash to verify")
	}
	if h.Verify(string(legacy), "other") {
		t.Fatalf("expected wrong password to fail against bcrypt hash")
	}
	if !h.NeedsRehash(string(legacy)) {
		t.Fatalf("bcrypt hashes must always need a rehash")
	}
}
