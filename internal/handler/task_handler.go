package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskward/internal/middleware"
	"github.com/hitoshi/taskward/internal/model"
	"github.com/hitoshi/taskward/internal/token"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	// Create は認証済みユーザーのタスクを作成する。
	Create(ctx context.Context, claims *token.Claims, title, description string) (*model.Task, error)
	// Get は指定IDのタスクを返す。
	Get(ctx context.Context, claims *token.Claims, taskID string) (*model.Task, error)
	// List は所有タスクの一覧をページネーション付きで返す。
	List(ctx context.Context, claims *token.Claims, filter model.TaskFilter, page model.PageRequest, maxPageSize int) (*model.PageResult[*model.Task], error)
	// Update はタスクを部分更新する。
	Update(ctx context.Context, claims *token.Claims, taskID string, patch model.TaskPatch) (*model.Task, error)
	// Delete はタスクを削除する。
	Delete(ctx context.Context, claims *token.Claims, taskID string) error
}

// PaginationConfig はページネーションの既定値と上限を保持する。
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// TaskHandler はタスク管理のHTTPハンドラー。
type TaskHandler struct {
	service    TaskServiceInterface
	pagination PaginationConfig
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface, pagination PaginationConfig) *TaskHandler {
	return &TaskHandler{
		service:    service,
		pagination: pagination,
	}
}

// createTaskRequest はタスク作成リクエストのボディ。
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// updateTaskRequest はタスク部分更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// taskResponse はタスク情報のAPIレスポンス。
type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTask はタスク作成を処理する。
// POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	task, err := h.service.Create(r.Context(), claims, req.Title, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

// GetTask はタスク詳細を取得する。
// GET /api/tasks/:id
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	task, err := h.service.Get(r.Context(), claims, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// ListTasks は所有タスクの一覧をページネーション付きで返す。
// GET /api/tasks?page=&page_size=&completed=&search=
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	page, err := parsePageRequest(r, h.pagination.DefaultPageSize)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result, err := h.service.List(r.Context(), claims, filter, page, h.pagination.MaxPageSize)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskPageResponse(result))
}

// UpdateTask はタスクの部分更新を処理する。
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	patch := model.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	task, err := h.service.Update(r.Context(), claims, chi.URLParam(r, "id"), patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// DeleteTask はタスク削除を処理する。
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	if err := h.service.Delete(r.Context(), claims, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// parsePageRequest はクエリパラメータからPageRequestを組み立てる。
// 省略時はpage=1、page_size=defaultPageSizeを使用する。
// 数値として解析できない値はInvalidPaginationエラーにする。
func parsePageRequest(r *http.Request, defaultPageSize int) (model.PageRequest, error) {
	page := model.PageRequest{
		Page:     1,
		PageSize: defaultPageSize,
	}

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, model.NewInvalidPaginationError("ページ番号は整数で指定してください。")
		}
		page.Page = n
	}

	if v := r.URL.Query().Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, model.NewInvalidPaginationError("ページサイズは整数で指定してください。")
		}
		page.PageSize = n
	}

	return page, nil
}

// parseTaskFilter はクエリパラメータからTaskFilterを組み立てる。
func parseTaskFilter(r *http.Request) (model.TaskFilter, error) {
	filter := model.TaskFilter{
		Search: r.URL.Query().Get("search"),
	}

	if v := r.URL.Query().Get("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, model.NewInvalidInputError("completedにはtrueまたはfalseを指定してください。")
		}
		filter.Completed = &b
	}

	return filter, nil
}

// toTaskResponse はmodel.TaskからAPIレスポンスに変換する。
func toTaskResponse(task *model.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		OwnerID:     task.OwnerID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// toTaskPageResponse はエンベロープを維持したままタスクをレスポンス形式に変換する。
func toTaskPageResponse(result *model.PageResult[*model.Task]) model.PageResult[taskResponse] {
	items := make([]taskResponse, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, toTaskResponse(t))
	}
	return model.PageResult[taskResponse]{
		Items:      items,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
	}
}
