package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/repository"
)

// reviewRequest はレビュー作成リクエストのボディ。
type reviewRequest struct {
	Name    string  `json:"name"`
	Details string  `json:"details"`
	Rating  float64 `json:"rating"`
}

// ReviewHandler はレビューのHTTPハンドラー。
type ReviewHandler struct {
	repo repository.ReviewRepository
}

// NewReviewHandler はReviewHandlerを生成する。
func NewReviewHandler(repo repository.ReviewRepository) *ReviewHandler {
	return &ReviewHandler{repo: repo}
}

// List は全レビューを取得する。
// GET /reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.repo.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reviews)
}

// Create はレビューを作成する。
// POST /reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	review := &model.Review{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Details:   req.Details,
		Rating:    req.Rating,
		CreatedAt: time.Now(),
	}

	if err := h.repo.Create(r.Context(), review); err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"insertedId": review.ID})
}
