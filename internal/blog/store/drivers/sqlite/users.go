package sqlite

import (
	"context"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

const userColumns = `id, name, email, password_digest, activated, activated_at,
	activation_digest, remember_digest, reset_digest, reset_sent_at,
	created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_digest, activated,
			activated_at, activation_digest, remember_digest, reset_digest,
			reset_sent_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordDigest, u.Activated,
		mapOptionalTime(u.ActivatedAt), u.ActivationDigest,
		mapStringNull(u.RememberDigest), mapStringNull(u.ResetDigest),
		mapOptionalTime(u.ResetSentAt), now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, name, email string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`,
		name, email, time.Now().UTC(), userID)
	return mapConstraint(err)
}

func (r *usersRepo) UpdatePasswordDigest(ctx context.Context, userID, digest string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_digest = ?, updated_at = ? WHERE id = ?`,
		digest, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateRememberDigest(ctx context.Context, userID, digest string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET remember_digest = ?, updated_at = ? WHERE id = ?`,
		mapStringNull(digest), time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateActivated(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET activated = 1, activated_at = ?, updated_at = ? WHERE id = ?`,
		at.UTC(), time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateResetDigest(ctx context.Context, userID, digest string, sentAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET reset_digest = ?, reset_sent_at = ?, updated_at = ? WHERE id = ?`,
		digest, sentAt.UTC(), time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) ClearResetDigest(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET reset_digest = NULL, reset_sent_at = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) ClearExpiredResetDigests(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET reset_digest = NULL, reset_sent_at = NULL, updated_at = ?
		WHERE reset_sent_at IS NOT NULL AND reset_sent_at < ?`,
		time.Now().UTC(), cutoff.UTC())
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	return err
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
