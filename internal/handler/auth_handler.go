package handler

import (
	"net/http"
)

// TokenIssuerInterface は認証ハンドラーが必要とするトークン発行インターフェース。
type TokenIssuerInterface interface {
	// Issue は渡されたクレームを署名し、1時間有効なトークン文字列を返す。
	// クレームの正当性検証は行わない（発行前の本人確認は呼び出し側の責務）。
	Issue(claims map[string]any) (string, error)
}

// TokenIssueRecorder はトークン発行のメトリクス記録インターフェース。
type TokenIssueRecorder interface {
	RecordTokenIssued()
}

// AuthHandler はトークン発行のHTTPハンドラー。
type AuthHandler struct {
	issuer   TokenIssuerInterface
	recorder TokenIssueRecorder
}

// NewAuthHandler はAuthHandlerを生成する。
// recorderはnilでもよい（メトリクス無効時）。
func NewAuthHandler(issuer TokenIssuerInterface, recorder TokenIssueRecorder) *AuthHandler {
	return &AuthHandler{
		issuer:   issuer,
		recorder: recorder,
	}
}

// IssueToken は送信されたアイデンティティペイロードからトークンを発行する。
// POST /jwt
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var claims map[string]any
	if err := decodeJSON(r, &claims); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tokenString, err := h.issuer.Issue(claims)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordTokenIssued()
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": tokenString})
}
