package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bistro/internal/middleware"
	"github.com/hitoshi/bistro/internal/payment"
	"github.com/hitoshi/bistro/internal/repository"
	"github.com/hitoshi/bistro/internal/security"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBがそのまま適合する。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// MetricsRecorder はルーターが必要とするメトリクス記録のインターフェース。
type MetricsRecorder interface {
	middleware.StatusRecorder
	TokenIssueRecorder
	PaymentRecorder
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	UserFinder        middleware.UserFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 可観測性（nilの場合は無効）
	Metrics        MetricsRecorder
	MetricsHandler http.Handler

	// ヘルスチェック
	HealthChecker HealthChecker

	// トークン発行
	TokenIssuer TokenIssuerInterface

	// リソース
	MenuRepo    repository.MenuRepository
	Sanitizer   security.ContentSanitizerService
	ReviewRepo  repository.ReviewRepository
	CartRepo    repository.CartRepository
	PaymentRepo repository.PaymentRepository

	// サービス
	UserService       UserServiceInterface
	CompletionService CompletionServiceInterface
	Gateway           payment.Gateway
	StatsService      StatsServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ガードの実行順序は固定:
//
//	TokenMiddleware → AdminMiddleware（またはOwnershipMiddleware）→ ハンドラー
//
// 失敗したガードはチェーンを短絡し、後続のガードとハンドラーは実行されない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.GeneralMiddleware())
	}

	authHandler := NewAuthHandler(deps.TokenIssuer, deps.Metrics)
	menuHandler := NewMenuHandler(deps.MenuRepo, deps.Sanitizer)
	reviewHandler := NewReviewHandler(deps.ReviewRepo)
	cartHandler := NewCartHandler(deps.CartRepo)
	userHandler := NewUserHandler(deps.UserService)
	paymentHandler := NewPaymentHandler(deps.Gateway, deps.CompletionService, deps.PaymentRepo, deps.Metrics)
	statsHandler := NewStatsHandler(deps.StatsService)

	verifyToken := middleware.NewTokenMiddleware(deps.TokenVerifier)
	verifyAdmin := middleware.NewAdminMiddleware(deps.UserFinder)
	verifyOwnership := middleware.NewOwnershipMiddleware("id")

	// ルート確認とヘルスチェック
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "bistro server is running"})
	})
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// トークン発行
	r.Post("/jwt", authHandler.IssueToken)

	// メニュー（読み取りは公開、変更は管理者専用）
	r.Route("/menu", func(r chi.Router) {
		r.Get("/", menuHandler.List)
		r.Get("/{id}", menuHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(verifyToken)
			r.Use(verifyAdmin)

			r.Post("/", menuHandler.Create)
			r.Patch("/{id}", menuHandler.Update)
			r.Delete("/{id}", menuHandler.Delete)
		})
	})

	// レビュー
	r.Get("/reviews", reviewHandler.List)
	r.Post("/reviews", reviewHandler.Create)

	// カート（素通しのリソース操作）
	r.Route("/carts", func(r chi.Router) {
		r.Get("/", cartHandler.List)
		r.Post("/", cartHandler.Create)
		r.Delete("/{id}", cartHandler.Delete)
	})

	// ユーザー
	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)

		r.With(verifyToken, verifyAdmin).Get("/", userHandler.List)
		r.With(verifyToken, verifyAdmin).Delete("/{id}", userHandler.Delete)

		// 自己参照の管理者チェックは所有権ガード、昇格は管理者ガード。
		// ワイルドカード名はchiの制約で両ルート共通の{id}にしている。
		r.With(verifyToken, verifyOwnership).Get("/admin/{id}", userHandler.AdminCheck)
		r.With(verifyToken, verifyAdmin).Patch("/admin/{id}", userHandler.Promote)
	})

	// 支払い
	if deps.RateLimiter != nil {
		r.With(deps.RateLimiter.PaymentIntentMiddleware()).Post("/create-payment-intent", paymentHandler.CreateIntent)
	} else {
		r.Post("/create-payment-intent", paymentHandler.CreateIntent)
	}
	r.Post("/payments", paymentHandler.Complete)
	r.Get("/payments", paymentHandler.List)

	// 集計
	r.Get("/admin-stats", statsHandler.AdminStats)
	r.Get("/order-stat", statsHandler.OrderStats)
	r.Get("/category-count", statsHandler.CategoryCounts)

	return r
}
