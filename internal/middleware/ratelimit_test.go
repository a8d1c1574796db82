package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/taskward/internal/model"
)

// testRateLimiterConfig はテスト用の小さなバーストの設定を返す。
func testRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    2,
		AuthRate:        rate.Limit(1.0 / 60.0),
		AuthBurst:       2,
		CleanupInterval: time.Minute,
	}
}

// TestRateLimiter_GeneralMiddleware_Exceeded はバースト超過が429になることを検証する。
func TestRateLimiter_GeneralMiddleware_Exceeded(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithClaims("user-1", model.RoleUser))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithClaims("user-1", model.RoleUser))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}
}

// TestRateLimiter_GeneralMiddleware_PerUser はユーザーごとに独立して制限されることを検証する。
func TestRateLimiter_GeneralMiddleware_PerUser(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// user-1 のバーストを使い切る
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithClaims("user-1", model.RoleUser))
	}

	// user-2 は影響を受けない
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithClaims("user-2", model.RoleUser))
	if rec.Code != http.StatusOK {
		t.Errorf("user-2 status = %d, want %d", rec.Code, http.StatusOK)
	}

	if count := rl.GeneralLimiterCount(); count != 2 {
		t.Errorf("GeneralLimiterCount() = %d, want 2", count)
	}
}

// TestRateLimiter_GeneralMiddleware_NoClaims はクレームなしが401になることを検証する。
func TestRateLimiter_GeneralMiddleware_NoClaims(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

// TestRateLimiter_AuthEndpointMiddleware は接続元IPキーの制限を検証する。
func TestRateLimiter_AuthEndpointMiddleware(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.AuthEndpointMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	newReq := func(addr string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		return req
	}

	// 同一IPでバーストを使い切る
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newReq("10.0.0.1:12345"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newReq("10.0.0.1:54321"))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("same IP different port: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	// 別IPは影響を受けない
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, newReq("10.0.0.2:12345"))
	if rec.Code != http.StatusOK {
		t.Errorf("different IP: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

// TestRateLimiter_Cleanup は期限切れエントリが削除されることを検証する。
func TestRateLimiter_Cleanup(t *testing.T) {
	cfg := testRateLimiterConfig()
	cfg.CleanupInterval = 10 * time.Millisecond
	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	rl.getOrCreate(&rl.generalMu, rl.generalLimiters, "user-1", cfg.GeneralRate, cfg.GeneralBurst)
	if count := rl.GeneralLimiterCount(); count != 1 {
		t.Fatalf("GeneralLimiterCount() = %d, want 1", count)
	}

	// 最終アクセスをTTL超過まで過去にずらす
	rl.generalMu.Lock()
	rl.generalLimiters["user-1"].lastAccess = time.Now().Add(-time.Hour)
	rl.generalMu.Unlock()

	rl.cleanup()

	if count := rl.GeneralLimiterCount(); count != 0 {
		t.Errorf("GeneralLimiterCount() after cleanup = %d, want 0", count)
	}
}
