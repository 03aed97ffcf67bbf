// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// claimsContextKey はリクエストコンテキストに認証済みクレームを格納するためのキー。
var claimsContextKey = contextKey("claims")

// TokenVerifier はベアラートークンの検証に必要なインターフェース。
// token.Serviceの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenString string) (map[string]any, error)
}

// NewTokenMiddleware はAuthorizationヘッダーのベアラートークンを検証する
// ミドルウェアを返す。検証に成功したクレームをリクエストコンテキストに注入する。
// ヘッダー欠落・署名不正・期限切れはいずれも401で短絡し、後続は実行されない。
// このガードはストアには一切アクセスしない。
func NewTokenMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Authorizationヘッダーの存在確認
			header := r.Header.Get("Authorization")
			if header == "" {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized access")
				return
			}

			// 2. スキームとトークンに分割（"Bearer <token>"）
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 {
				writeMessage(w, http.StatusUnauthorized, "unverified: Unauthorized Access")
				return
			}

			// 3. 署名と有効期限を検証
			claims, err := verifier.Verify(parts[1])
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "unverified: Unauthorized Access")
				return
			}

			// 4. 認証済みクレームをコンテキストに注入
			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext はリクエストコンテキストから認証済みクレームを取得する。
// トークンミドルウェアを通過したリクエストでのみ有効。
func ClaimsFromContext(ctx context.Context) (map[string]any, error) {
	claims, ok := ctx.Value(claimsContextKey).(map[string]any)
	if !ok || claims == nil {
		return nil, fmt.Errorf("claims not found in context")
	}
	return claims, nil
}

// EmailFromContext は認証済みクレームからemailを取得する。
func EmailFromContext(ctx context.Context) (string, error) {
	claims, err := ClaimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("email not found in claims")
	}
	return email, nil
}

// ContextWithClaims はコンテキストにクレームを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithClaims(ctx context.Context, claims map[string]any) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// writeMessage は{"message": ...}形式のJSONレスポンスを書き込む。
// ガード失敗時の401/403レスポンスで使用する。
func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]any{"message": message})
}
