package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/taskward/internal/authz"
	"github.com/hitoshi/taskward/internal/model"
)

// NewRequireRoleMiddleware は指定ロールのいずれかを要求するミドルウェアを返す。
// 認証ミドルウェアの後に配置する。ロール不足は403 Forbiddenを返す
// （未認証の401とは決して混同しない）。
func NewRequireRoleMiddleware(roles ...model.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := ClaimsFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
				return
			}

			if d := authz.Evaluate(authz.HasRole(claims, roles...)); !d.Allowed() {
				slog.Warn("role check failed",
					slog.String("user_id", claims.SubjectID()),
					slog.String("role", string(claims.Role)),
					slog.String("path", r.URL.Path),
				)
				WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
