package service

import (
	"context"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
)

// FeedService exposes the per-user activity and notification feeds.
type FeedService struct {
	Store store.Store
}

// ActivitiesForUser returns a user's activity feed newest-first.
func (s *FeedService) ActivitiesForUser(ctx context.Context, userID string) ([]domain.Activity, error) {
	return s.Store.Activities().ListActivitiesByUser(ctx, userID)
}

// NotificationsForUser returns a user's notifications newest-first.
func (s *FeedService) NotificationsForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.Store.Notifications().ListNotificationsByUser(ctx, userID)
}

// MarkNotificationRead flags a notification as read.
func (s *FeedService) MarkNotificationRead(ctx context.Context, id string) error {
	return s.Store.Notifications().MarkNotificationRead(ctx, id)
}
