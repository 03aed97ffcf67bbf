package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/repository"
	"github.com/hitoshi/bistro/internal/security"
)

// menuItemRequest はメニュー項目の作成・更新リクエストのボディ。
type menuItemRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Recipe   string  `json:"recipe"`
	Image    string  `json:"image"`
}

// MenuHandler はメニュー管理のHTTPハンドラー。
type MenuHandler struct {
	repo      repository.MenuRepository
	sanitizer security.ContentSanitizerService
}

// NewMenuHandler はMenuHandlerを生成する。
func NewMenuHandler(repo repository.MenuRepository, sanitizer security.ContentSanitizerService) *MenuHandler {
	return &MenuHandler{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// List は全メニュー項目を取得する。
// GET /menu
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Get はメニュー項目の詳細を取得する。
// GET /menu/{id}
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Create はメニュー項目を作成する。管理者専用。
// POST /menu
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item := &model.MenuItem{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Category:  req.Category,
		Price:     req.Price,
		Recipe:    h.sanitizer.Sanitize(req.Recipe),
		Image:     req.Image,
		CreatedAt: time.Now(),
	}

	if err := h.repo.Create(r.Context(), item); err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"insertedId": item.ID})
}

// Update はメニュー項目を上書き更新する。管理者専用。
// PATCH /menu/{id}
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item := &model.MenuItem{
		ID:       id,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Recipe:   h.sanitizer.Sanitize(req.Recipe),
		Image:    req.Image,
	}

	modified, err := h.repo.Update(r.Context(), item)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"modifiedCount": modified})
}

// Delete はメニュー項目を削除する。管理者専用。
// DELETE /menu/{id}
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.repo.DeleteByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}
