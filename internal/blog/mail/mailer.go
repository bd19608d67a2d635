// Package mail delivers account emails. The credential and user services
// treat delivery as fire-and-forget; a failed send never rolls back the
// digest write that preceded it.
package mail

import (
	"context"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

type Mailer interface {
	// SendActivationEmail delivers the one-time activation token to a
	// freshly signed-up user.
	SendActivationEmail(ctx context.Context, user domain.User, token string) error

	// SendPasswordResetEmail delivers the one-time reset token.
	SendPasswordResetEmail(ctx context.Context, user domain.User, token string) error
}
