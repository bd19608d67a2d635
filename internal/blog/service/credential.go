package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/mail"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

// CredentialKind selects which digest column an Authenticated check runs
// against.
type CredentialKind string

const (
	CredentialPassword   CredentialKind = "password"
	CredentialRemember   CredentialKind = "remember"
	CredentialActivation CredentialKind = "activation"
	CredentialReset      CredentialKind = "reset"
)

var ErrActivationAlreadyIssued = errors.New("activation credential already issued")

// CredentialConfig carries the knobs the credential manager needs. Injected
// at construction; there is no ambient settings object.
type CredentialConfig struct {
	// HashCost is the bcrypt cost factor. Production stays at
	// cryptox.DefaultCost or above; tests use cryptox.MinCost.
	HashCost int

	// ResetWindow is how long a password reset token stays valid.
	ResetWindow time.Duration
}

// CredentialService manages the secrets attached to a user record:
// password digest, remember credential, activation credential, and password
// reset credential. Every secret follows the same shape: generate a random
// token, persist only its bcrypt digest, hand the plaintext back exactly
// once on the user's transient field.
type CredentialService struct {
	Store  store.Store
	Mailer mail.Mailer
	Config CredentialConfig
}

// Remember issues a fresh remember credential, persisting the digest and
// exposing the plaintext via u.RememberToken. Each call supersedes the
// previous remember token.
func (s *CredentialService) Remember(ctx context.Context, u *domain.User) error {
	log := slogx.FromContext(ctx)

	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		log.Error("failed to generate remember token", slog.Any("error", err))
		return err
	}

	digest, err := cryptox.HashSecret(token, s.Config.HashCost)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdateRememberDigest(ctx, u.ID, digest); err != nil {
		log.Error("failed to persist remember digest",
			slog.String("user_id", u.ID),
			slog.Any("error", err),
		)
		return err
	}

	u.RememberDigest = digest
	u.RememberToken = token
	return nil
}

// Forget clears the remember credential. Idempotent; forgetting a user who
// was never remembered is a no-op.
func (s *CredentialService) Forget(ctx context.Context, u *domain.User) error {
	if err := s.Store.Users().UpdateRememberDigest(ctx, u.ID, ""); err != nil {
		return err
	}

	u.RememberDigest = ""
	u.RememberToken = ""
	return nil
}

// Authenticated reports whether token matches the digest selected by kind.
// An unset digest is an ordinary false, never an error: "no credential set
// yet" is a normal state.
func (s *CredentialService) Authenticated(u domain.User, kind CredentialKind, token string) bool {
	return cryptox.VerifySecret(digestFor(u, kind), token)
}

// IssueActivation generates the one-time activation credential on a user
// that has not been persisted yet. Called exactly once, from the signup
// path; activation secrets are single-use by design and cannot be rotated.
func (s *CredentialService) IssueActivation(u *domain.User) error {
	if u.ActivationDigest != "" {
		return ErrActivationAlreadyIssued
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return err
	}

	digest, err := cryptox.HashSecret(token, s.Config.HashCost)
	if err != nil {
		return err
	}

	u.ActivationToken = token
	u.ActivationDigest = digest
	return nil
}

// Activate marks the account activated. Idempotent: a second call rewrites
// the same state and does not error.
func (s *CredentialService) Activate(ctx context.Context, u *domain.User) error {
	at := time.Now().UTC()
	if err := s.Store.Users().UpdateActivated(ctx, u.ID, at); err != nil {
		return err
	}

	u.Activated = true
	u.ActivatedAt = &at

	slogx.FromContext(ctx).Info("user activated", slog.String("user_id", u.ID))
	return nil
}

// IssueReset generates a password reset credential, persisting the digest
// and reset_sent_at together, then dispatches the reset email with the
// plaintext token. Each call supersedes any prior unconsumed reset token.
// The email send is fire-and-forget: the digest write is durable before the
// send is attempted, and a delivery failure is only logged.
func (s *CredentialService) IssueReset(ctx context.Context, u *domain.User) error {
	log := slogx.FromContext(ctx)

	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		log.Error("failed to generate reset token", slog.Any("error", err))
		return err
	}

	digest, err := cryptox.HashSecret(token, s.Config.HashCost)
	if err != nil {
		return err
	}

	sentAt := time.Now().UTC()
	if err := s.Store.Users().UpdateResetDigest(ctx, u.ID, digest, sentAt); err != nil {
		log.Error("failed to persist reset digest",
			slog.String("user_id", u.ID),
			slog.Any("error", err),
		)
		return err
	}

	u.ResetDigest = digest
	u.ResetSentAt = &sentAt
	u.ResetToken = token

	go func(recipient domain.User, token string) {
		ctx := context.WithoutCancel(ctx)
		if err := s.Mailer.SendPasswordResetEmail(ctx, recipient, token); err != nil {
			log.Error("failed to send password reset email",
				slog.String("user_id", recipient.ID),
				slog.Any("error", err),
			)
		}
	}(*u, token)

	return nil
}

// ResetExpired reports whether the pending reset credential has aged out.
// A reset sent exactly at now-window is NOT yet expired; expiry requires
// reset_sent_at strictly before the cutoff. A user with no pending reset
// counts as expired.
func (s *CredentialService) ResetExpired(u domain.User) bool {
	if u.ResetSentAt == nil {
		return true
	}
	cutoff := time.Now().UTC().Add(-s.Config.ResetWindow)
	return u.ResetSentAt.Before(cutoff)
}

// ResetPassword consumes a reset credential: sets the new password digest
// and clears the reset digest pair in one transaction so the token cannot
// be replayed.
func (s *CredentialService) ResetPassword(ctx context.Context, u *domain.User, newPassword string, rules domain.ValidationRules) error {
	if err := domain.ValidatePassword(newPassword, rules); err != nil {
		return err
	}

	digest, err := cryptox.HashSecret(newPassword, s.Config.HashCost)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordDigest(ctx, u.ID, digest); err != nil {
			return err
		}
		return tx.Users().ClearResetDigest(ctx, u.ID)
	})
	if err != nil {
		return err
	}

	u.PasswordDigest = digest
	u.ResetDigest = ""
	u.ResetSentAt = nil
	u.ResetToken = ""

	slogx.FromContext(ctx).Info("password reset", slog.String("user_id", u.ID))
	return nil
}

func digestFor(u domain.User, kind CredentialKind) string {
	switch kind {
	case CredentialPassword:
		return u.PasswordDigest
	case CredentialRemember:
		return u.RememberDigest
	case CredentialActivation:
		return u.ActivationDigest
	case CredentialReset:
		return u.ResetDigest
	}
	return ""
}
