package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/user"
)

// userRequest はユーザー作成リクエストのボディ。
type userRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// CreateIfAbsent はemailが未登録の場合のみユーザーを作成する。
	// 既存emailはエラーではなくソフトコンフリクトとして報告される。
	CreateIfAbsent(ctx context.Context, u *model.User) (*user.CreateResult, error)
	// IsAdmin は指定emailのユーザーが管理者ロールかどうかを返す。
	IsAdmin(ctx context.Context, email string) (bool, error)
	// List は全ユーザーを返す。
	List(ctx context.Context) ([]*model.User, error)
	// PromoteToAdmin は指定IDのユーザーのロールをadminに更新する（冪等）。
	PromoteToAdmin(ctx context.Context, id string) (int64, error)
	// Delete は指定IDのユーザーを削除する。
	Delete(ctx context.Context, id string) (int64, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// List は全ユーザーを取得する。管理者専用。
// GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Create はemailが未登録の場合のみユーザーを作成する。
// 既存emailに対しては {message: "user already exist", insertedId: null} を
// 200で返す（エラーにはしない）。
// POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.CreateIfAbsent(r.Context(), &model.User{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// AdminCheck は認証済みユーザー自身が管理者かどうかを返す。
// URLパラメータには照会対象のemailが入る。所有権ガードにより
// 認証済みemailとの一致が保証されている。
// GET /users/admin/{id}
func (h *UserHandler) AdminCheck(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "id")

	admin, err := h.service.IsAdmin(r.Context(), email)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"admin": admin})
}

// Promote はユーザーを管理者に昇格する。管理者専用。
// PATCH /users/admin/{id}
func (h *UserHandler) Promote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	modified, err := h.service.PromoteToAdmin(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"modifiedCount": modified})
}

// Delete はユーザーを削除する。管理者専用。
// DELETE /users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}
