package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/bistro/internal/model"
)

// UserFinder はロール判定に必要なユーザー検索インターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// NewAdminMiddleware は認証済みemailのロールを検証するミドルウェアを返す。
// 必ずトークンミドルウェアの後に配置すること。単体では動作しない。
// ロールはキャッシュせず毎回ストアに問い合わせるため、
// 権限剥奪は直後のリクエストから有効になる。
// レコードが存在しないemailは非管理者として扱う（エラーにはしない）。
func NewAdminMiddleware(finder UserFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, err := EmailFromContext(r.Context())
			if err != nil {
				// トークンミドルウェアを通過していないリクエスト
				writeMessage(w, http.StatusUnauthorized, "Unauthorized access")
				return
			}

			user, err := finder.FindByEmail(r.Context(), email)
			if err != nil {
				slog.Error("failed to find user for role check",
					slog.String("email", email),
					slog.String("error", err.Error()),
				)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			if !user.IsAdmin() {
				writeMessage(w, http.StatusForbidden, "Forbidden access")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
