package sqlite

import (
	"context"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

type postsRepo struct {
	db dbtx
}

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Title, p.Body, now, now)
	return mapConstraint(err)
}

func (r *postsRepo) GetPostByID(ctx context.Context, id string) (domain.Post, error) {
	var p domain.Post
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, body, created_at, updated_at
		FROM posts WHERE id = ?`, id).
		Scan(&p.ID, &p.UserID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	return p, nil
}

func (r *postsRepo) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return r.list(ctx,
		`SELECT id, user_id, title, body, created_at, updated_at
		FROM posts ORDER BY created_at DESC, id DESC`)
}

func (r *postsRepo) ListPostsByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	return r.list(ctx,
		`SELECT id, user_id, title, body, created_at, updated_at
		FROM posts WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (r *postsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *postsRepo) DeletePost(ctx context.Context, postID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, postID)
	return err
}
