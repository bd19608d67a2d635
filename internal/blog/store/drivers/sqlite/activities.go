package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

type activitiesRepo struct {
	db dbtx
}

func (r *activitiesRepo) CreateActivity(ctx context.Context, a domain.Activity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (id, user_id, post_id, action, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.UserID, mapStringNull(a.PostID), a.Action, time.Now().UTC())
	return mapConstraint(err)
}

func (r *activitiesRepo) ListActivitiesByUser(ctx context.Context, userID string) ([]domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, post_id, action, created_at
		FROM activities WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var (
			a      domain.Activity
			postID sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.UserID, &postID, &a.Action, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.PostID = mapNullString(postID)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
