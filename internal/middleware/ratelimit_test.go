package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:        rate.Limit(1.0 / 60.0),
		GeneralBurst:       2,
		PaymentIntentRate:  rate.Limit(1.0 / 60.0),
		PaymentIntentBurst: 1,
		CleanupInterval:    time.Minute,
	}
}

// TestRateLimiter_BurstExceeded はバーストを超えたリクエストが429になることを検証する。
func TestRateLimiter_BurstExceeded(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.RemoteAddr = "192.0.2.1:12345"

	// バースト分（2回）は通過
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	// 3回目は拒否
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429 response")
	}
}

// TestRateLimiter_PerClientIsolation はクライアントIPごとに独立した
// リミッターが使われることを検証する。
func TestRateLimiter_PerClientIsolation(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// クライアントAがバーストを使い切る
	reqA := httptest.NewRequest(http.MethodGet, "/menu", nil)
	reqA.RemoteAddr = "192.0.2.1:12345"
	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), reqA)
	}

	// クライアントBは影響を受けない
	reqB := httptest.NewRequest(http.MethodGet, "/menu", nil)
	reqB.RemoteAddr = "192.0.2.2:12345"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, reqB)

	if w.Code != http.StatusOK {
		t.Errorf("client B status = %d, want %d", w.Code, http.StatusOK)
	}

	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("limiter count = %d, want 2", got)
	}
}

// TestRateLimiter_IndependentBuckets はPaymentIntent制限とAPI全般制限が
// 独立に動作することを検証する。
func TestRateLimiter_IndependentBuckets(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	general := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	paymentIntent := rl.PaymentIntentMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", nil)
	req.RemoteAddr = "192.0.2.1:12345"

	// PaymentIntentのバースト（1回）を使い切る
	w := httptest.NewRecorder()
	paymentIntent.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first payment-intent status = %d, want %d", w.Code, http.StatusOK)
	}

	w = httptest.NewRecorder()
	paymentIntent.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second payment-intent status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	// API全般のバケットは消費されていない
	w = httptest.NewRecorder()
	general.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("general status = %d, want %d", w.Code, http.StatusOK)
	}
}

// TestClientIPFromRequest_XForwardedFor はX-Forwarded-Forの先頭エントリが
// 優先されることを検証する。
func TestClientIPFromRequest_XForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if got := clientIPFromRequest(req); got != "203.0.113.7" {
		t.Errorf("clientIP = %q, want %q", got, "203.0.113.7")
	}
}

// TestClientIPFromRequest_RemoteAddr はヘッダーがない場合に
// RemoteAddrのホスト部が使われることを検証する。
func TestClientIPFromRequest_RemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.RemoteAddr = "192.0.2.9:54321"

	if got := clientIPFromRequest(req); got != "192.0.2.9" {
		t.Errorf("clientIP = %q, want %q", got, "192.0.2.9")
	}
}

// TestLimiterBucket_Cleanup は期限切れエントリがクリーンアップで
// 削除されることを検証する。
func TestLimiterBucket_Cleanup(t *testing.T) {
	b := &limiterBucket{
		rate:     rate.Limit(1),
		burst:    1,
		limiters: make(map[string]*clientLimiter),
	}

	b.allow("192.0.2.1")
	b.allow("192.0.2.2")
	if got := b.size(); got != 2 {
		t.Fatalf("size = %d, want 2", got)
	}

	// 過去のアクセス時刻に巻き戻す
	b.mu.Lock()
	b.limiters["192.0.2.1"].lastAccess = time.Now().Add(-time.Hour)
	b.mu.Unlock()

	b.cleanup(time.Minute)

	if got := b.size(); got != 1 {
		t.Errorf("size after cleanup = %d, want 1", got)
	}
}
