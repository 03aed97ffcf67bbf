package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GeneralRate        rate.Limit    // API全般のレート（req/sec）
	GeneralBurst       int           // API全般のバーストサイズ
	PaymentIntentRate  rate.Limit    // PaymentIntent作成のレート（req/sec）
	PaymentIntentBurst int           // PaymentIntent作成のバーストサイズ
	CleanupInterval    time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// API全般 300 req/min/クライアント、PaymentIntent作成 20 req/min/クライアント。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:        rate.Limit(300.0 / 60.0),
		GeneralBurst:       300,
		PaymentIntentRate:  rate.Limit(20.0 / 60.0),
		PaymentIntentBurst: 20,
		CleanupInterval:    5 * time.Minute,
	}
}

// clientLimiter はクライアントごとのレートリミッターとアクセス時刻を保持する。
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterBucket は1種類のレート制限を管理するバケット。
// クライアントIPをキーにリミッターを保持する。
type limiterBucket struct {
	rate     rate.Limit
	burst    int
	mu       sync.Mutex
	limiters map[string]*clientLimiter
}

// allow はクライアントのリミッターを取得または作成し、1リクエスト分を消費する。
func (b *limiterBucket) allow(clientIP string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	cl, exists := b.limiters[clientIP]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(b.rate, b.burst)}
		b.limiters[clientIP] = cl
	}
	cl.lastAccess = time.Now()

	return cl.limiter.Allow()
}

// cleanup は最終アクセス時刻がttlを超えたエントリを削除する。
func (b *limiterBucket) cleanup(ttl time.Duration) {
	now := time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	for ip, cl := range b.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(b.limiters, ip)
		}
	}
}

// size は現在管理されているエントリ数を返す。テスト用。
func (b *limiterBucket) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.limiters)
}

// RateLimiter はクライアントIPごとのレート制限を管理する。
// API全般のレート制限とPaymentIntent作成のレート制限の2種類を提供する。
type RateLimiter struct {
	config RateLimiterConfig

	general       *limiterBucket
	paymentIntent *limiterBucket

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config: config,
		general: &limiterBucket{
			rate:     config.GeneralRate,
			burst:    config.GeneralBurst,
			limiters: make(map[string]*clientLimiter),
		},
		paymentIntent: &limiterBucket{
			rate:     config.PaymentIntentRate,
			burst:    config.PaymentIntentBurst,
			limiters: make(map[string]*clientLimiter),
		},
		stopCh: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware はAPI全般のレート制限ミドルウェアを返す。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.general, "general")
}

// PaymentIntentMiddleware はPaymentIntent作成専用のレート制限ミドルウェアを返す。
// API全般のレート制限とは独立に動作する。
func (rl *RateLimiter) PaymentIntentMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.paymentIntent, "payment_intent")
}

// GeneralLimiterCount は現在管理されているAPI全般リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) GeneralLimiterCount() int {
	return rl.general.size()
}

func (rl *RateLimiter) middleware(bucket *limiterBucket, limitType string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := clientIPFromRequest(r)

			if !bucket.allow(clientIP) {
				writeRateLimitResponse(w, bucket.rate)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", clientIP),
					slog.String("limit_type", limitType),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ttl := rl.config.CleanupInterval * 2
			rl.general.cleanup(ttl)
			rl.paymentIntent.cleanup(ttl)
		case <-rl.stopCh:
			return
		}
	}
}

// clientIPFromRequest はリクエストからクライアントIPを取得する。
// リバースプロキシ配下を想定し、X-Forwarded-Forの先頭エントリを優先する。
func clientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	writeMessage(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
}
