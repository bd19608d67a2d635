package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

type PostsHandler struct {
	PostService *service.PostService
}

type createPostRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type addCommentRequest struct {
	UserID string `json:"user_id"`
	Body   string `json:"body"`
}

func (h *PostsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.UserID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "invalid_request",
			ErrorDescription: "user_id is required",
		})
		return
	}

	post, err := h.PostService.CreatePost(ctx, req.UserID, req.Title, req.Body)
	if err != nil {
		if isValidationError(err) {
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Error:            "invalid_request",
				ErrorDescription: err.Error(),
			})
			return
		}
		log.Error("failed to create post", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to create post",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

func (h *PostsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := h.PostService.ListPosts(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list posts", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to list posts",
		})
		return
	}

	resp := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *PostsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, err := h.PostService.GetPost(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse{
				Error:            "not_found",
				ErrorDescription: "Post not found",
			})
			return
		}
		slogx.FromContext(ctx).Error("failed to fetch post", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to fetch post",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

func (h *PostsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.PostService.DeletePost(ctx, r.PathValue("id")); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse{
				Error:            "not_found",
				ErrorDescription: "Post not found",
			})
			return
		}
		slogx.FromContext(ctx).Error("failed to delete post", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to delete post",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PostsHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.UserID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "invalid_request",
			ErrorDescription: "user_id is required",
		})
		return
	}

	comment, err := h.PostService.AddComment(ctx, req.UserID, r.PathValue("id"), req.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, errorResponse{
				Error:            "not_found",
				ErrorDescription: "Post not found",
			})
		case isValidationError(err):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Error:            "invalid_request",
				ErrorDescription: err.Error(),
			})
		default:
			log.Error("failed to add comment", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to add comment",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(comment))
}

func (h *PostsHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comments, err := h.PostService.ListComments(ctx, r.PathValue("id"))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list comments", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to list comments",
		})
		return
	}

	resp := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, toCommentResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
