package domain

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// User is the account record. Digest columns hold bcrypt hashes only; the
// matching plaintext token lives on the transient fields for exactly one
// round-trip after issuance and is never persisted.
type User struct {
	ID               string
	Name             string
	Email            string // always stored lowercase
	PasswordDigest   string
	Activated        bool
	ActivatedAt      *time.Time
	ActivationDigest string
	RememberDigest   string // empty = no remember credential
	ResetDigest      string // empty = no pending reset
	ResetSentAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Transient one-time tokens, populated by the credential service at
	// issuance so callers can place them in an outbound email or cookie.
	ActivationToken string `json:"-"`
	RememberToken   string `json:"-"`
	ResetToken      string `json:"-"`
}

// ValidationRules carries the bounds the service applies before every save.
// Injected from config; there is no ambient settings object.
type ValidationRules struct {
	NameMaxLength     int
	EmailMaxLength    int
	PasswordMinLength int
}

// Validate checks presence, length, and email format. Uniqueness is the
// store's job and surfaces as store.ErrAlreadyExists on create/update.
func (u User) Validate(rules ValidationRules) error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name,
			validation.Required,
			validation.RuneLength(1, rules.NameMaxLength),
		),
		validation.Field(&u.Email,
			validation.Required,
			validation.RuneLength(3, rules.EmailMaxLength),
			is.EmailFormat,
		),
	)
}

// ValidatePassword checks a plaintext password against the configured
// minimum. Called only when a password is being set or changed, so update
// paths that leave the password alone skip it entirely.
func ValidatePassword(plaintext string, rules ValidationRules) error {
	return validation.Validate(plaintext,
		validation.Required,
		validation.RuneLength(rules.PasswordMinLength, 0),
	)
}

// NormalizeEmail returns the canonical form of an email address. Pure
// function applied at every write boundary; the stored value is always the
// normalized one.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
