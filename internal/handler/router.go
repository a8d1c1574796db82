package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskward/internal/middleware"
	"github.com/hitoshi/taskward/internal/model"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 運用エンドポイント
	HealthChecker  HealthChecker
	MetricsHandler http.Handler            // nilの場合は/metricsを公開しない
	HTTPMetrics    middleware.HTTPRecorder // nilの場合はHTTPメトリクスを記録しない

	// ページネーション設定
	Pagination PaginationConfig

	// サービス
	AuthService AuthServiceInterface
	AuthMetrics AuthMetrics
	TaskService TaskServiceInterface
	UserService UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → (Auth → RateLimit(General) → [RequireRole])
//
// 登録・ログイン（/api/auth/register, /api/auth/login）は認証ミドルウェアの外に置き、
// 接続元IPキーの専用レート制限のみを適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthMetrics)
	taskHandler := NewTaskHandler(deps.TaskService, deps.Pagination)
	adminHandler := NewAdminHandler(deps.UserService, deps.Pagination)

	// --- 認証不要のルート ---

	r.Get("/health", newHealthHandler(deps.HealthChecker))

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// 登録・ログイン（認証前のためIPキーのレート制限）
	r.Route("/api/auth", func(r chi.Router) {
		r.With(deps.RateLimiter.AuthEndpointMiddleware()).Post("/register", authHandler.Register)
		r.With(deps.RateLimiter.AuthEndpointMiddleware()).Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
			r.Use(deps.RateLimiter.GeneralMiddleware())
			r.Get("/me", authHandler.Me)
		})
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// タスク管理
		r.Route("/api/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.CreateTask)
			r.Get("/", taskHandler.ListTasks)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTask)
				r.Put("/", taskHandler.UpdateTask)
				r.Delete("/", taskHandler.DeleteTask)
			})
		})

		// 管理者専用操作（管理者ロールを追加で要求）
		r.Route("/api/admin/users", func(r chi.Router) {
			r.Use(middleware.NewRequireRoleMiddleware(model.RoleAdmin))

			r.Get("/", adminHandler.ListUsers)
			r.Put("/{id}/role", adminHandler.ChangeRole)
			r.Delete("/{id}", adminHandler.DeactivateUser)
		})
	})

	return r
}

// newHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
// GET /health
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := checker.PingContext(ctx); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
