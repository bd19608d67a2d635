package postgres

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
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx,
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
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_digest, activated,
			activated_at, activation_digest, remember_digest, reset_digest,
			reset_sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		u.ID, u.Name, u.Email, u.PasswordDigest, u.Activated,
		mapOptionalTime(u.ActivatedAt), u.ActivationDigest,
		mapStringNull(u.RememberDigest), mapStringNull(u.ResetDigest),
		mapOptionalTime(u.ResetSentAt), now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, name, email string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET name = $1, email = $2, updated_at = $3 WHERE id = $4`,
		name, email, time.Now().UTC(), userID)
	return mapConstraint(err)
}

func (r *usersRepo) UpdatePasswordDigest(ctx context.Context, userID, digest string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET password_digest = $1, updated_at = $2 WHERE id = $3`,
		digest, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateRememberDigest(ctx context.Context, userID, digest string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET remember_digest = $1, updated_at = $2 WHERE id = $3`,
		mapStringNull(digest), time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateActivated(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET activated = TRUE, activated_at = $1, updated_at = $2 WHERE id = $3`,
		at.UTC(), time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateResetDigest(ctx context.Context, userID, digest string, sentAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET reset_digest = $1, reset_sent_at = $2, updated_at = $3 WHERE id = $4`,
		digest, sentAt.UTC(), time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) ClearResetDigest(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET reset_digest = NULL, reset_sent_at = NULL, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) ClearExpiredResetDigests(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET reset_digest = NULL, reset_sent_at = NULL, updated_at = $1
		WHERE reset_sent_at IS NOT NULL AND reset_sent_at < $2`,
		time.Now().UTC(), cutoff.UTC())
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return err
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
