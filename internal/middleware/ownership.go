package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewOwnershipMiddleware は指定されたURLパラメータと認証済みemailの
// 完全一致（文字列比較）を要求するミドルウェアを返す。
// ロールに関係なく、不一致は403で短絡する。
// 管理者ガードの代替にはならない。自己参照クエリ専用の、より狭いチェック。
func NewOwnershipMiddleware(paramName string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, err := EmailFromContext(r.Context())
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized access")
				return
			}

			if chi.URLParam(r, paramName) != email {
				writeMessage(w, http.StatusForbidden, "Forbidden access")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
