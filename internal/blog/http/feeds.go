package http

import (
	"errors"
	"net/http"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

type FeedsHandler struct {
	FeedService *service.FeedService
}

func (h *FeedsHandler) HandleActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	acts, err := h.FeedService.ActivitiesForUser(ctx, r.PathValue("id"))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list activities", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to list activities",
		})
		return
	}

	resp := make([]activityResponse, 0, len(acts))
	for _, a := range acts {
		resp = append(resp, toActivityResponse(a))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *FeedsHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	notes, err := h.FeedService.NotificationsForUser(ctx, r.PathValue("id"))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list notifications", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to list notifications",
		})
		return
	}

	resp := make([]notificationResponse, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, toNotificationResponse(n))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *FeedsHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.FeedService.MarkNotificationRead(ctx, r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse{
				Error:            "not_found",
				ErrorDescription: "Notification not found",
			})
			return
		}
		slogx.FromContext(ctx).Error("failed to mark notification read", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to mark notification read",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
