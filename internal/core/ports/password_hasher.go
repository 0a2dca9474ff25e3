package ports

// PasswordHasher turns secrets into one-way digests.
//
// Verify never fails: a malformed digest and a wrong password are both
// reported as false. NeedsRehash reports digests produced with parameters
// weaker than the current defaults.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
	NeedsRehash(hash string) bool
}
