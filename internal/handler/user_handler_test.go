package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/user"
)

// --- モック ---

type mockUserService struct {
	createIfAbsentFn func(ctx context.Context, u *model.User) (*user.CreateResult, error)
	isAdminFn        func(ctx context.Context, email string) (bool, error)
	listFn           func(ctx context.Context) ([]*model.User, error)
	promoteFn        func(ctx context.Context, id string) (int64, error)
	deleteFn         func(ctx context.Context, id string) (int64, error)
}

func (m *mockUserService) CreateIfAbsent(ctx context.Context, u *model.User) (*user.CreateResult, error) {
	if m.createIfAbsentFn != nil {
		return m.createIfAbsentFn(ctx, u)
	}
	return &user.CreateResult{}, nil
}
func (m *mockUserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	if m.isAdminFn != nil {
		return m.isAdminFn(ctx, email)
	}
	return false, nil
}
func (m *mockUserService) List(ctx context.Context) ([]*model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockUserService) PromoteToAdmin(ctx context.Context, id string) (int64, error) {
	if m.promoteFn != nil {
		return m.promoteFn(ctx, id)
	}
	return 0, nil
}
func (m *mockUserService) Delete(ctx context.Context, id string) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return 0, nil
}

// withRouteParam はchiのルートコンテキストにURLパラメータを注入する。
func withRouteParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// --- テスト ---

// TestUserHandler_Create_New は新規ユーザー作成がinsertedIdを返すことを検証する。
func TestUserHandler_Create_New(t *testing.T) {
	id := "user-1"
	svc := &mockUserService{
		createIfAbsentFn: func(ctx context.Context, u *model.User) (*user.CreateResult, error) {
			if u.Email != "alice@example.com" {
				t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
			}
			return &user.CreateResult{InsertedID: &id}, nil
		},
	}

	h := NewUserHandler(svc)

	body := strings.NewReader(`{"email": "alice@example.com", "name": "Alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["insertedId"] != "user-1" {
		t.Errorf("insertedId = %v, want %q", resp["insertedId"], "user-1")
	}
}

// TestUserHandler_Create_Duplicate は既存emailに対して
// {message: "user already exist", insertedId: null} が200で返ることを検証する。
func TestUserHandler_Create_Duplicate(t *testing.T) {
	svc := &mockUserService{
		createIfAbsentFn: func(ctx context.Context, u *model.User) (*user.CreateResult, error) {
			return &user.CreateResult{Message: "user already exist", InsertedID: nil}, nil
		},
	}

	h := NewUserHandler(svc)

	body := strings.NewReader(`{"email": "alice@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (soft conflict is not an error)", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["message"] != "user already exist" {
		t.Errorf("message = %v, want %q", resp["message"], "user already exist")
	}
	if id, present := resp["insertedId"]; !present || id != nil {
		t.Errorf("insertedId = %v (present=%v), want explicit null", id, present)
	}
}

// TestUserHandler_Create_InvalidBody は不正なJSONが400になることを検証する。
func TestUserHandler_Create_InvalidBody(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestUserHandler_AdminCheck はURLパラメータのemailで管理者判定が行われることを検証する。
func TestUserHandler_AdminCheck(t *testing.T) {
	svc := &mockUserService{
		isAdminFn: func(ctx context.Context, email string) (bool, error) {
			if email != "alice@example.com" {
				t.Errorf("email = %q, want %q", email, "alice@example.com")
			}
			return true, nil
		},
	}

	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/admin/alice@example.com", nil)
	req = withRouteParam(req, "id", "alice@example.com")
	w := httptest.NewRecorder()

	h.AdminCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]bool
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp["admin"] {
		t.Error("admin = false, want true")
	}
}

// TestUserHandler_Promote は昇格結果がmodifiedCountとして返ることを検証する。
func TestUserHandler_Promote(t *testing.T) {
	svc := &mockUserService{
		promoteFn: func(ctx context.Context, id string) (int64, error) {
			if id != "u1" {
				t.Errorf("id = %q, want %q", id, "u1")
			}
			return 1, nil
		},
	}

	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPatch, "/users/admin/u1", nil)
	req = withRouteParam(req, "id", "u1")
	w := httptest.NewRecorder()

	h.Promote(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]int64
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["modifiedCount"] != 1 {
		t.Errorf("modifiedCount = %d, want 1", resp["modifiedCount"])
	}
}

// TestUserHandler_List_StoreError はストア失敗が500になることを検証する。
func TestUserHandler_List_StoreError(t *testing.T) {
	svc := &mockUserService{
		listFn: func(ctx context.Context) ([]*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}

	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
