package postgres

import (
	"context"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

type commentsRepo struct {
	db dbtx
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO comments (id, user_id, post_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.UserID, c.PostID, c.Body, time.Now().UTC())
	return mapConstraint(err)
}

func (r *commentsRepo) ListCommentsByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, post_id, body, created_at
		FROM comments WHERE post_id = $1 ORDER BY created_at ASC, id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.PostID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
