package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"minisocial/internal/app/service"
	"minisocial/internal/common"
	"minisocial/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type PostHandler struct {
	postService *service.PostService
	logger      *slog.Logger
}

func NewPostHandler(ps *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{postService: ps, logger: logger}
}

func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Post("/post", h.createPost)
	r.Get("/posts", h.listPosts)
}

type postsResponse struct {
	Posts []model.Post `json:"posts"`
}

func (h *PostHandler) createPost(w http.ResponseWriter, r *http.Request) {
	var req service.AddPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	msg, err := h.postService.AddPost(r.Context(), req)
	if err != nil {
		status := logFailure(r, h.logger, "error posting content", err)
		common.RespondWithError(w, status, common.PublicMessage(err))
		return
	}
	common.RespondWithMessage(w, http.StatusCreated, msg)
}

func (h *PostHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	userIDStr := r.URL.Query().Get("userId")
	if userIDStr == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Missing userId parameter")
		return
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid userId parameter")
		return
	}

	posts, err := h.postService.ListPosts(r.Context(), userID)
	if err != nil {
		status := logFailure(r, h.logger, "error retrieving posts", err)
		common.RespondWithError(w, status, common.PublicMessage(err))
		return
	}
	common.RespondWithJSON(w, http.StatusOK, postsResponse{Posts: posts})
}
