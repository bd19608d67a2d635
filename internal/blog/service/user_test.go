package service

import (
	"context"
	"testing"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := newTestCredentials(st)
	users := newTestUsers(st, creds)

	u, err := users.Signup(ctx, "Alice", "Alice@Example.COM", "secret123")
	require.NoError(t, err)

	require.Equal(t, "alice@example.com", u.Email, "email is normalized before persistence")
	require.False(t, u.Activated)
	require.NotEmpty(t, u.ActivationToken, "plaintext activation token is handed out once at signup")
	require.True(t, creds.Authenticated(u, CredentialActivation, u.ActivationToken))

	stored, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", stored.Email)
	require.NotEmpty(t, stored.ActivationDigest)
	require.Empty(t, stored.ActivationToken, "the plaintext token is never stored")
	require.NotEqual(t, "secret123", stored.PasswordDigest)
	require.True(t, creds.Authenticated(stored, CredentialPassword, "secret123"))

	acts, err := st.Activities().ListActivitiesByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	require.Equal(t, domain.ActivitySignedUp, acts[0].Action)
}

func TestSignup_EmailTaken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newTestUsers(st, newTestCredentials(st))

	_, err := users.Signup(ctx, "Alice", "taken@example.com", "secret123")
	require.NoError(t, err)

	// Uniqueness holds across casing because both sides normalize.
	_, err = users.Signup(ctx, "Bob", "TAKEN@example.com", "secret456")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignup_Validation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := newTestUsers(st, newTestCredentials(st))

	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"blank name", "", "ok@example.com", "secret123"},
		{"blank email", "Alice", "", "secret123"},
		{"malformed email", "Alice", "not-an-email", "secret123"},
		{"short password", "Alice", "ok@example.com", "tiny"},
		{"blank password", "Alice", "ok@example.com", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := users.Signup(ctx, tc.userName, tc.email, tc.password)
			require.Error(t, err)
		})
	}

	// Nothing was persisted along the way.
	all, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestGetUserByEmail_Normalizes(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := newTestCredentials(st)
	users := newTestUsers(st, creds)
	u := seedUser(t, users, "lookup@example.com")

	got, err := users.GetUserByEmail(ctx, "LOOKUP@Example.Com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = users.GetUserByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := newTestCredentials(st)
	users := newTestUsers(st, creds)
	u := seedUser(t, users, "before@example.com")
	other := seedUser(t, users, "other@example.com")

	require.NoError(t, users.UpdateProfile(ctx, u.ID, "New Name", "After@Example.com"))

	got, err := users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "New Name", got.Name)
	require.Equal(t, "after@example.com", got.Email)

	// Moving onto someone else's address is refused.
	err = users.UpdateProfile(ctx, u.ID, "New Name", other.Email)
	require.ErrorIs(t, err, ErrEmailTaken)

	require.ErrorIs(t, users.UpdateProfile(ctx, "missing", "X", "x@example.com"), ErrUserNotFound)
}

func TestDestroy_Cascades(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := newTestCredentials(st)
	users := newTestUsers(st, creds)
	posts := &PostService{Store: st}

	author := seedUser(t, users, "author@example.com")
	reader := seedUser(t, users, "reader@example.com")

	p, err := posts.CreatePost(ctx, author.ID, "Hello", "First post")
	require.NoError(t, err)
	_, err = posts.AddComment(ctx, reader.ID, p.ID, "Nice one")
	require.NoError(t, err)

	require.NoError(t, users.Destroy(ctx, author.ID))

	_, err = users.GetUserByID(ctx, author.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	// The author's content and feed rows are gone with them.
	_, err = posts.GetPost(ctx, p.ID)
	require.ErrorIs(t, err, ErrPostNotFound)

	acts, err := st.Activities().ListActivitiesByUser(ctx, author.ID)
	require.NoError(t, err)
	require.Empty(t, acts)

	notes, err := st.Notifications().ListNotificationsByUser(ctx, author.ID)
	require.NoError(t, err)
	require.Empty(t, notes)

	// The commenter survives, though their comment's post is gone.
	_, err = users.GetUserByID(ctx, reader.ID)
	require.NoError(t, err)

	require.ErrorIs(t, users.Destroy(ctx, author.ID), ErrUserNotFound)
}
