package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/mail"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/internal/blog/store/drivers/sqlite"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

const testResetWindow = 2 * time.Hour

var testRules = domain.ValidationRules{
	NameMaxLength:     50,
	EmailMaxLength:    255,
	PasswordMinLength: 6,
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestCredentials(st store.Store) *CredentialService {
	return &CredentialService{
		Store:  st,
		Mailer: &mail.LogMailer{},
		Config: CredentialConfig{
			HashCost:    cryptox.MinCost,
			ResetWindow: testResetWindow,
		},
	}
}

func newTestUsers(st store.Store, creds *CredentialService) *UserService {
	return &UserService{
		Store:       st,
		Credentials: creds,
		Mailer:      &mail.LogMailer{},
		Rules:       testRules,
	}
}

func seedUser(t *testing.T, users *UserService, email string) domain.User {
	t.Helper()

	u, err := users.Signup(context.Background(), "Test User", email, "secret123")
	require.NoError(t, err)
	return u
}

func TestAuthenticated_AbsentDigests(t *testing.T) {
	st := newTestStore(t)
	creds := newTestCredentials(st)

	// A user with no credentials set is simply unauthenticated for every
	// kind; no kind may panic or error on an unset digest.
	blank := domain.User{ID: "nobody"}
	for _, kind := range []CredentialKind{
		CredentialPassword, CredentialRemember, CredentialActivation, CredentialReset,
	} {
		require.False(t, creds.Authenticated(blank, kind, "any-token"),
			"kind %s must be false on unset digest", kind)
	}

	require.False(t, creds.Authenticated(blank, CredentialKind("bogus"), "any-token"))
}

func TestRememberForgetCycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := newTestCredentials(st)
	u := seedUser(t, newTestUsers(st, creds), "remember@example.com")

	require.NoError(t, creds.Remember(ctx, &u))
	require.NotEmpty(t, u.RememberToken)
	require.True(t, creds.Authenticated(u, CredentialRemember, u.RememberToken))

	// The digest, not the token, is what got persisted.
	stored, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.RememberDigest)
	require.NotEqual(t, u.RememberToken, stored.RememberDigest)
	require.Empty(t, stored.RememberToken, "plaintext token must never round-trip through the store")

	token := u.RememberToken
	require.NoError(t, creds.Forget(ctx, &u))
	require.False(t, creds.Authenticated(u, CredentialRemember, token))

	stored, err = st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, stored.RememberDigest)

	// Forget is idempotent.
	require.NoError(t, creds.Forget(ctx, &u))
}

func TestRemember_RotatesToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := newTestCredentials(st)
	u := seedUser(t, newTestUsers(st, creds), "rotate@example.com")

	require.NoError(t, creds.Remember(ctx, &u))
	first := u.RememberToken

	require.NoError(t, creds.Remember(ctx, &u))
	second := u.RememberToken

	require.NotEqual(t, first, second)
	require.False(t, creds.Authenticated(u, CredentialRemember, first))
	require.True(t, creds.Authenticated(u, CredentialRemember, second))
}

func TestIssueActivation_SingleUse(t *testing.T) {
	creds := newTestCredentials(newTestStore(t))

	u := domain.User{ID: "pending"}
	require.NoError(t, creds.IssueActivation(&u))
	require.NotEmpty(t, u.ActivationToken)
	require.NotEmpty(t, u.ActivationDigest)
	require.True(t, creds.Authenticated(u, CredentialActivation, u.ActivationToken))

	// The activation secret cannot be rotated.
	err := creds.IssueActivation(&u)
	require.ErrorIs(t, err, ErrActivationAlreadyIssued)
}

func TestActivate_Idempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := newTestCredentials(st)
	u := seedUser(t, newTestUsers(st, creds), "activate@example.com")

	require.False(t, u.Activated)
	require.Nil(t, u.ActivatedAt)

	require.NoError(t, creds.Activate(ctx, &u))
	require.True(t, u.Activated)
	require.NotNil(t, u.ActivatedAt)

	// Second call rewrites the same state without error.
	require.NoError(t, creds.Activate(ctx, &u))

	stored, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, stored.Activated)
	require.NotNil(t, stored.ActivatedAt)
}

func TestIssueReset_PersistsDigestPairTogether(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := newTestCredentials(st)
	u := seedUser(t, newTestUsers(st, creds), "reset@example.com")

	require.NoError(t, creds.IssueReset(ctx, &u))
	require.NotEmpty(t, u.ResetToken)
	require.True(t, creds.Authenticated(u, CredentialReset, u.ResetToken))

	stored, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.ResetDigest)
	require.NotNil(t, stored.ResetSentAt)
	require.Empty(t, stored.ResetToken)
}

func TestIssueReset_SupersedesPrevious(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := newTestCredentials(st)
	u := seedUser(t, newTestUsers(st, creds), "supersede@example.com")

	require.NoError(t, creds.IssueReset(ctx, &u))
	first := u.ResetToken

	require.NoError(t, creds.IssueReset(ctx, &u))
	second := u.ResetToken

	require.NotEqual(t, first, second)

	stored, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, creds.Authenticated(stored, CredentialReset, first),
		"old reset token must be unverifiable once superseded")
	require.True(t, creds.Authenticated(stored, CredentialReset, second))
}

func TestResetExpired(t *testing.T) {
	creds := newTestCredentials(newTestStore(t))

	at := func(d time.Duration) *time.Time {
		ts := time.Now().UTC().Add(d)
		return &ts
	}

	t.Run("fresh reset is not expired", func(t *testing.T) {
		require.False(t, creds.ResetExpired(domain.User{ResetSentAt: at(0)}))
	})

	t.Run("inside the window", func(t *testing.T) {
		// 2-hour window: a reset sent an hour ago is still good.
		require.False(t, creds.ResetExpired(domain.User{ResetSentAt: at(-time.Hour)}))
	})

	t.Run("just inside the cutoff", func(t *testing.T) {
		// Expiry requires reset_sent_at strictly before now-window, so a
		// timestamp a minute short of the cutoff is not yet expired.
		require.False(t, creds.ResetExpired(domain.User{ResetSentAt: at(-testResetWindow + time.Minute)}))
	})

	t.Run("past the window", func(t *testing.T) {
		require.True(t, creds.ResetExpired(domain.User{ResetSentAt: at(-3 * time.Hour)}))
	})

	t.Run("no pending reset counts as expired", func(t *testing.T) {
		require.True(t, creds.ResetExpired(domain.User{}))
	})
}

func TestResetPassword_ConsumesCredential(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := newTestCredentials(st)
	u := seedUser(t, newTestUsers(st, creds), "consume@example.com")

	require.NoError(t, creds.IssueReset(ctx, &u))
	token := u.ResetToken

	require.NoError(t, creds.ResetPassword(ctx, &u, "newsecret456", testRules))

	require.True(t, creds.Authenticated(u, CredentialPassword, "newsecret456"))
	require.False(t, creds.Authenticated(u, CredentialPassword, "secret123"))

	// The reset pair is cleared together; the token cannot be replayed.
	stored, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, stored.ResetDigest)
	require.Nil(t, stored.ResetSentAt)
	require.False(t, creds.Authenticated(stored, CredentialReset, token))
}

func TestResetPassword_RejectsShortPassword(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := newTestCredentials(st)
	u := seedUser(t, newTestUsers(st, creds), "shortpw@example.com")

	require.NoError(t, creds.IssueReset(ctx, &u))
	require.Error(t, creds.ResetPassword(ctx, &u, "tiny", testRules))

	// Credential untouched on validation failure.
	stored, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.ResetDigest)
}

func TestHousekeeping_SweepsExpiredResets(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := newTestCredentials(st)
	users := newTestUsers(st, creds)

	stale := seedUser(t, users, "stale@example.com")
	fresh := seedUser(t, users, "fresh@example.com")

	require.NoError(t, creds.IssueReset(ctx, &fresh))

	// Backdate a reset beyond the window for the stale user.
	digest, err := cryptox.HashSecret(cryptox.MustGenerateToken(cryptox.TokenSize128), cryptox.MinCost)
	require.NoError(t, err)
	old := time.Now().UTC().Add(-3 * time.Hour)
	require.NoError(t, st.Users().UpdateResetDigest(ctx, stale.ID, digest, old))

	hk := NewHousekeepingService(st, discardLogger(), time.Hour, testResetWindow)
	hk.sweep()

	got, err := st.Users().GetUserByID(ctx, stale.ID)
	require.NoError(t, err)
	require.Empty(t, got.ResetDigest)
	require.Nil(t, got.ResetSentAt)

	got, err = st.Users().GetUserByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.NotEmpty(t, got.ResetDigest, "unexpired reset must survive the sweep")
}
