package store

import (
	"context"
	"errors"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable, and hands out Tx-scoped stores for multi-step writes.
type Store interface {
	Users() Users
	Posts() Posts
	Comments() Comments
	Activities() Activities
	Notifications() Notifications

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Prefer this
	// over Tx for anything multi-step.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by their normalized (lowercase) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users ordered by name ascending.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile mutates name and email and bumps updated_at. The email
	// must already be normalized. Returns ErrAlreadyExists on a collision.
	UpdateProfile(ctx context.Context, userID, name, email string) error

	// UpdatePasswordDigest sets password_digest and bumps updated_at.
	UpdatePasswordDigest(ctx context.Context, userID, digest string) error

	// UpdateRememberDigest sets remember_digest; an empty digest clears the
	// column to NULL (forget).
	UpdateRememberDigest(ctx context.Context, userID, digest string) error

	// UpdateActivated marks the user activated at the given time.
	UpdateActivated(ctx context.Context, userID string, at time.Time) error

	// UpdateResetDigest sets reset_digest and reset_sent_at together.
	UpdateResetDigest(ctx context.Context, userID, digest string, sentAt time.Time) error

	// ClearResetDigest nulls reset_digest and reset_sent_at together.
	ClearResetDigest(ctx context.Context, userID string) error

	// ClearExpiredResetDigests nulls the reset pair on every user whose
	// reset_sent_at is strictly before cutoff. Housekeeping.
	ClearExpiredResetDigests(ctx context.Context, cutoff time.Time) error

	// DeleteUser cascades to posts, comments, activities, notifications.
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Posts interface {
	// CreatePost inserts a new post.
	CreatePost(ctx context.Context, p domain.Post) error

	// GetPostByID returns a post by id.
	GetPostByID(ctx context.Context, id string) (domain.Post, error)

	// ListPosts returns all posts newest-first.
	ListPosts(ctx context.Context) ([]domain.Post, error)

	// ListPostsByUser returns a user's posts newest-first.
	ListPostsByUser(ctx context.Context, userID string) ([]domain.Post, error)

	// DeletePost cascades to comments, activities, notifications.
	DeletePost(ctx context.Context, postID string) error
}

type Comments interface {
	// CreateComment inserts a new comment.
	CreateComment(ctx context.Context, c domain.Comment) error

	// ListCommentsByPost returns a post's comments oldest-first.
	ListCommentsByPost(ctx context.Context, postID string) ([]domain.Comment, error)
}

type Activities interface {
	// CreateActivity appends an activity record.
	CreateActivity(ctx context.Context, a domain.Activity) error

	// ListActivitiesByUser returns a user's activities newest-first.
	ListActivitiesByUser(ctx context.Context, userID string) ([]domain.Activity, error)
}

type Notifications interface {
	// CreateNotification appends a notification for a recipient.
	CreateNotification(ctx context.Context, n domain.Notification) error

	// ListNotificationsByUser returns a recipient's notifications newest-first.
	ListNotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error)

	// MarkNotificationRead flips read=1.
	MarkNotificationRead(ctx context.Context, id string) error
}
