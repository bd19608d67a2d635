package cryptox

import (
	"golang.org/x/crypto/bcrypt"
)

// Bounds for the bcrypt cost factor. MinCost exists so test suites can hash
// thousands of secrets without blowing their timeouts; production deployments
// should stay at DefaultCost or above.
const (
	MinCost     = bcrypt.MinCost
	DefaultCost = bcrypt.DefaultCost
)

// HashSecret computes a salted bcrypt digest of plaintext at the given cost.
// The same routine covers passwords and one-time tokens (activation, remember,
// reset) so every stored credential shares the work-factor policy.
func HashSecret(plaintext string, cost int) (string, error) {
	if cost < MinCost {
		cost = MinCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifySecret reports whether plaintext matches the bcrypt digest. An empty
// digest means "no credential set yet" and is an ordinary false, not an error.
func VerifySecret(digest, plaintext string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
