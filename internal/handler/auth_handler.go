package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hitoshi/taskward/internal/middleware"
	"github.com/hitoshi/taskward/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register は新規ユーザーを登録する。
	Register(ctx context.Context, email, rawPassword, name string) (*model.User, error)
	// Authenticate は認証情報を検証しセッショントークンを発行する。
	Authenticate(ctx context.Context, email, rawPassword string) (string, *model.User, error)
	// CurrentUser は認証済みユーザーの最新プロフィールを取得する。
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
}

// AuthMetrics は認証イベントのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type AuthMetrics interface {
	RecordRegistration()
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
}

// AuthHandler は登録・ログイン・本人確認のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics AuthMetrics
}

// NewAuthHandler はAuthHandlerを生成する。
// metricsはnilの場合メトリクスを記録しない。
func NewAuthHandler(service AuthServiceInterface, metrics AuthMetrics) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: metrics,
	}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse はユーザー情報のAPIレスポンス。
// パスワードハッシュは決して含めない。
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// loginResponse はログイン成功時のAPIレスポンス。
type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Register はユーザー登録を処理する。
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRegistration()
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login はログインを処理し、セッショントークンを発行する。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	tok, user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		var apiErr *model.APIError
		if h.metrics != nil && errors.As(err, &apiErr) {
			h.metrics.RecordLoginFailure(apiErr.Code)
		}
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLoginSuccess()
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token: tok,
		User:  toUserResponse(user),
	})
}

// Me は認証済みユーザーの最新プロフィールを返す。
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	user, err := h.service.CurrentUser(r.Context(), claims.SubjectID())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}
