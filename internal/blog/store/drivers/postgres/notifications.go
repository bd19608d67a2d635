package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
)

type notificationsRepo struct {
	db dbtx
}

func (r *notificationsRepo) CreateNotification(ctx context.Context, n domain.Notification) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO notifications (id, user_id, post_id, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.UserID, mapStringNull(n.PostID), n.Message, n.Read, time.Now().UTC())
	return mapConstraint(err)
}

func (r *notificationsRepo) ListNotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, post_id, message, read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var (
			n      domain.Notification
			postID sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.UserID, &postID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.PostID = mapNullString(postID)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationsRepo) MarkNotificationRead(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
