package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskward/internal/model"
)

// UserServiceInterface は管理者ハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// ListUsers はユーザー一覧をページネーション付きで返す。
	ListUsers(ctx context.Context, page model.PageRequest, maxPageSize int) (*model.PageResult[*model.User], error)
	// ChangeRole はユーザーのロールを変更する。
	ChangeRole(ctx context.Context, userID string, role model.Role) (*model.User, error)
	// Deactivate はユーザーをソフト無効化する。
	Deactivate(ctx context.Context, userID string) (*model.User, error)
}

// AdminHandler は管理者専用操作のHTTPハンドラー。
// ロールチェックはルーター側のミドルウェアで行う。
type AdminHandler struct {
	service    UserServiceInterface
	pagination PaginationConfig
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(service UserServiceInterface, pagination PaginationConfig) *AdminHandler {
	return &AdminHandler{
		service:    service,
		pagination: pagination,
	}
}

// changeRoleRequest はロール変更リクエストのボディ。
type changeRoleRequest struct {
	Role string `json:"role"`
}

// ListUsers はユーザー一覧をページネーション付きで返す。
// GET /api/admin/users?page=&page_size=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r, h.pagination.DefaultPageSize)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result, err := h.service.ListUsers(r.Context(), page, h.pagination.MaxPageSize)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserPageResponse(result))
}

// ChangeRole はユーザーのロール変更を処理する。
// PUT /api/admin/users/:id/role
func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	user, err := h.service.ChangeRole(r.Context(), chi.URLParam(r, "id"), model.Role(req.Role))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// DeactivateUser はユーザーのソフト無効化を処理する。
// DELETE /api/admin/users/:id
func (h *AdminHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Deactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// toUserPageResponse はエンベロープを維持したままユーザーをレスポンス形式に変換する。
// パスワードハッシュはここで確実に落とす。
func toUserPageResponse(result *model.PageResult[*model.User]) model.PageResult[userResponse] {
	items := make([]userResponse, 0, len(result.Items))
	for _, u := range result.Items {
		items = append(items, toUserResponse(u))
	}
	return model.PageResult[userResponse]{
		Items:      items,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
	}
}
