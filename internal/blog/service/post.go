package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/idx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

var ErrPostNotFound = errors.New("post not found")

type PostService struct {
	Store store.Store
}

// CreatePost publishes a post and records the author's activity in one
// transaction.
func (s *PostService) CreatePost(ctx context.Context, userID, title, body string) (domain.Post, error) {
	if err := validation.Validate(title, validation.Required); err != nil {
		return domain.Post{}, fmt.Errorf("title: %w", err)
	}
	if err := validation.Validate(body, validation.Required); err != nil {
		return domain.Post{}, fmt.Errorf("body: %w", err)
	}

	p := domain.Post{
		ID:     idx.New().String(),
		UserID: userID,
		Title:  title,
		Body:   body,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Posts().CreatePost(ctx, p); err != nil {
			return err
		}
		return tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:     idx.New().String(),
			UserID: userID,
			PostID: p.ID,
			Action: domain.ActivityCreatedPost,
		})
	})
	if err != nil {
		return domain.Post{}, err
	}

	slogx.FromContext(ctx).Info("post created",
		slog.String("post_id", p.ID),
		slog.String("user_id", userID),
	)
	return p, nil
}

// GetPost fetches a post by id.
func (s *PostService) GetPost(ctx context.Context, postID string) (domain.Post, error) {
	p, err := s.Store.Posts().GetPostByID(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Post{}, ErrPostNotFound
	}
	return p, err
}

// ListPosts returns all posts newest-first.
func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.Store.Posts().ListPosts(ctx)
}

// ListPostsByUser returns a user's posts newest-first.
func (s *PostService) ListPostsByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	return s.Store.Posts().ListPostsByUser(ctx, userID)
}

// AddComment attaches a comment to a post, recording the commenter's
// activity and notifying the post's author. All three writes commit
// together.
func (s *PostService) AddComment(ctx context.Context, userID, postID, body string) (domain.Comment, error) {
	if err := validation.Validate(body, validation.Required); err != nil {
		return domain.Comment{}, fmt.Errorf("body: %w", err)
	}

	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return domain.Comment{}, err
	}

	c := domain.Comment{
		ID:     idx.New().String(),
		UserID: userID,
		PostID: postID,
		Body:   body,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Comments().CreateComment(ctx, c); err != nil {
			return err
		}
		if err := tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:     idx.New().String(),
			UserID: userID,
			PostID: postID,
			Action: domain.ActivityCreatedComment,
		}); err != nil {
			return err
		}

		// Commenting on your own post doesn't notify you.
		if post.UserID == userID {
			return nil
		}
		return tx.Notifications().CreateNotification(ctx, domain.Notification{
			ID:      idx.New().String(),
			UserID:  post.UserID,
			PostID:  postID,
			Message: "New comment on your post",
		})
	})
	if err != nil {
		return domain.Comment{}, err
	}

	return c, nil
}

// ListComments returns a post's comments oldest-first.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	return s.Store.Comments().ListCommentsByPost(ctx, postID)
}

// DeletePost deletes a post; comments, activities, and notifications
// referencing it cascade.
func (s *PostService) DeletePost(ctx context.Context, postID string) error {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return err
	}
	return s.Store.Posts().DeletePost(ctx, postID)
}
