package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/mail"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/inkwellhq/inkwell/pkg/idx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

var (
	ErrEmailTaken   = errors.New("email already taken")
	ErrUserNotFound = errors.New("user not found")
)

type UserService struct {
	Store       store.Store
	Credentials *CredentialService
	Mailer      mail.Mailer
	Rules       domain.ValidationRules
}

// Signup registers a new user. The email is normalized to lowercase before
// validation and persistence, the password is stored as a bcrypt digest
// only, and the one-time activation credential is issued exactly here. The
// returned user carries the plaintext activation token on its transient
// field; it is not retrievable again afterwards.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	u := domain.User{
		ID:    idx.New().String(),
		Name:  name,
		Email: domain.NormalizeEmail(email),
	}

	if err := u.Validate(s.Rules); err != nil {
		return domain.User{}, err
	}
	if err := domain.ValidatePassword(password, s.Rules); err != nil {
		return domain.User{}, err
	}

	digest, err := cryptox.HashSecret(password, s.Credentials.Config.HashCost)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}
	u.PasswordDigest = digest

	if err := s.Credentials.IssueActivation(&u); err != nil {
		log.Error("failed to issue activation credential", slog.Any("error", err))
		return domain.User{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:     idx.New().String(),
			UserID: u.ID,
			Action: domain.ActivitySignedUp,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("signup attempted with taken email", slog.String("email", u.Email))
			return domain.User{}, ErrEmailTaken
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	// Digest write is durable; delivery is fire-and-forget.
	go func(recipient domain.User, token string) {
		ctx := context.WithoutCancel(ctx)
		if err := s.Mailer.SendActivationEmail(ctx, recipient, token); err != nil {
			log.Error("failed to send activation email",
				slog.String("user_id", recipient.ID),
				slog.Any("error", err),
			)
		}
	}(u, u.ActivationToken)

	log.Info("user signed up",
		slog.String("user_id", u.ID),
		slog.String("email", u.Email),
	)

	return u, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// GetUserByEmail fetches a user by email. The lookup key is normalized
// first so callers may pass any casing.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// ListUsers returns all users ordered by name.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// UpdateProfile changes name and email. The email passes through the same
// normalization and validation as the signup path.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, email string) error {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	u.Name = name
	u.Email = domain.NormalizeEmail(email)
	if err := u.Validate(s.Rules); err != nil {
		return err
	}

	err = s.Store.Users().UpdateProfile(ctx, userID, u.Name, u.Email)
	if errors.Is(err, store.ErrAlreadyExists) {
		return ErrEmailTaken
	}
	return err
}

// Destroy deletes a user. Posts, comments, activities, and notifications
// owned by the user go with it (enforced by the store's cascades).
func (s *UserService) Destroy(ctx context.Context, userID string) error {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}

	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("user destroyed", slog.String("user_id", userID))
	return nil
}
