package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// --- モック ---

type mockTokenIssuer struct {
	issueFn func(claims map[string]any) (string, error)
}

func (m *mockTokenIssuer) Issue(claims map[string]any) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(claims)
	}
	return "", nil
}

type mockTokenIssueRecorder struct {
	issued int
}

func (m *mockTokenIssueRecorder) RecordTokenIssued() { m.issued++ }

// --- テスト ---

// TestAuthHandler_IssueToken はペイロードがそのままクレームとして渡され、
// 署名済みトークンが返ることを検証する。
func TestAuthHandler_IssueToken(t *testing.T) {
	issuer := &mockTokenIssuer{
		issueFn: func(claims map[string]any) (string, error) {
			if claims["email"] != "alice@example.com" {
				t.Errorf("email claim = %v, want %q", claims["email"], "alice@example.com")
			}
			return "signed-token", nil
		},
	}
	recorder := &mockTokenIssueRecorder{}

	h := NewAuthHandler(issuer, recorder)

	body := strings.NewReader(`{"email": "alice@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/jwt", body)
	w := httptest.NewRecorder()

	h.IssueToken(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["token"] != "signed-token" {
		t.Errorf("token = %q, want %q", resp["token"], "signed-token")
	}
	if recorder.issued != 1 {
		t.Errorf("issued = %d, want 1", recorder.issued)
	}
}

// TestAuthHandler_IssueToken_InvalidBody は不正なJSONが400になることを検証する。
func TestAuthHandler_IssueToken_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockTokenIssuer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.IssueToken(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestAuthHandler_IssueToken_SignFailure は署名失敗が500になることを検証する。
func TestAuthHandler_IssueToken_SignFailure(t *testing.T) {
	issuer := &mockTokenIssuer{
		issueFn: func(claims map[string]any) (string, error) {
			return "", errors.New("sign failed")
		},
	}

	h := NewAuthHandler(issuer, nil)

	body := strings.NewReader(`{"email": "alice@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/jwt", body)
	w := httptest.NewRecorder()

	h.IssueToken(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
