package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/repository"
)

// cartItemRequest はカート項目作成リクエストのボディ。
type cartItemRequest struct {
	Email      string  `json:"email"`
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	Price      float64 `json:"price"`
}

// CartHandler はカートのHTTPハンドラー。
type CartHandler struct {
	repo repository.CartRepository
}

// NewCartHandler はCartHandlerを生成する。
func NewCartHandler(repo repository.CartRepository) *CartHandler {
	return &CartHandler{repo: repo}
}

// List はカート項目を取得する。emailクエリで所有者を絞り込める。
// GET /carts?email=xxx
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	items, err := h.repo.List(r.Context(), email)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Create はカート項目を作成する。
// POST /carts
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item := &model.CartItem{
		ID:         uuid.New().String(),
		Email:      req.Email,
		MenuItemID: req.MenuItemID,
		Name:       req.Name,
		Image:      req.Image,
		Price:      req.Price,
		CreatedAt:  time.Now(),
	}

	if err := h.repo.Create(r.Context(), item); err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"insertedId": item.ID})
}

// Delete はカート項目を削除する。
// DELETE /carts/{id}
func (h *CartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.repo.DeleteByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}
