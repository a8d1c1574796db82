// Package task はタスク管理のドメインロジックを提供する。
//
// すべてのレコード単位操作は認可ゲート（認証 → 所有権）を通過する。
// 所有権のないタスクへのアクセスはNotFoundとして扱い、存在の有無を漏らさない。
// 管理者ロールは所有権チェックを一律にバイパスする。
package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskward/internal/authz"
	"github.com/hitoshi/taskward/internal/model"
	"github.com/hitoshi/taskward/internal/repository"
	"github.com/hitoshi/taskward/internal/security"
	"github.com/hitoshi/taskward/internal/token"
)

const (
	titleMinLength = 3
	titleMaxLength = 200
)

// DenialRecorder は認可拒否のメトリクス記録インターフェース。
type DenialRecorder interface {
	RecordAuthzDenial(reason string)
}

// Service はタスク管理のサービス層。
type Service struct {
	taskRepo  repository.TaskRepository
	sanitizer security.ContentSanitizerService
	denials   DenialRecorder
}

// NewService はServiceを生成する。
// denialsはnilの場合メトリクスを記録しない。
func NewService(taskRepo repository.TaskRepository, sanitizer security.ContentSanitizerService, denials DenialRecorder) *Service {
	return &Service{
		taskRepo:  taskRepo,
		sanitizer: sanitizer,
		denials:   denials,
	}
}

// Create は認証済みユーザーのタスクを作成する。
// OwnerIDには必ず呼び出し元のユーザーIDが設定され、以後変更されない。
func (s *Service) Create(ctx context.Context, claims *token.Claims, title, description string) (*model.Task, error) {
	if d := authz.Evaluate(authz.Authenticated(claims)); !d.Allowed() {
		return nil, s.deny(d, "")
	}

	title = s.sanitizer.Sanitize(title)
	description = s.sanitizer.Sanitize(description)

	if err := validateTitle(title); err != nil {
		return nil, err
	}

	now := time.Now()
	t := &model.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Completed:   false,
		OwnerID:     claims.SubjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	slog.Info("task created",
		slog.String("task_id", t.ID),
		slog.String("owner_id", t.OwnerID),
	)

	return t, nil
}

// Get は指定IDのタスクを返す。
// 存在確認 → 所有権チェックの順で認可する。
func (s *Service) Get(ctx context.Context, claims *token.Claims, taskID string) (*model.Task, error) {
	t, err := s.fetchAuthorized(ctx, claims, taskID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List は呼び出し元が所有するタスクの一覧をページネーション付きで返す。
// 所有者スコープはクライアント入力で上書きできない。
// ページ範囲外のリクエストはエラーにせず空の一覧を返す。
func (s *Service) List(ctx context.Context, claims *token.Claims, filter model.TaskFilter, page model.PageRequest, maxPageSize int) (*model.PageResult[*model.Task], error) {
	if d := authz.Evaluate(authz.Authenticated(claims)); !d.Allowed() {
		return nil, s.deny(d, "")
	}

	if err := page.Validate(maxPageSize); err != nil {
		return nil, err
	}

	items, total, err := s.taskRepo.ListByOwner(ctx, claims.SubjectID(), filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	result := model.NewPageResult(items, page, total)
	return &result, nil
}

// Update はタスクを部分更新する。nilフィールドは既存値を維持する。
func (s *Service) Update(ctx context.Context, claims *token.Claims, taskID string, patch model.TaskPatch) (*model.Task, error) {
	if _, err := s.fetchAuthorized(ctx, claims, taskID); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := s.sanitizer.Sanitize(*patch.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		desc := s.sanitizer.Sanitize(*patch.Description)
		patch.Description = &desc
	}

	updated, err := s.taskRepo.Update(ctx, taskID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if updated == nil {
		// 認可後に並行削除されたケース
		return nil, model.NewTaskNotFoundError(taskID)
	}

	return updated, nil
}

// Delete はタスクを削除する。
func (s *Service) Delete(ctx context.Context, claims *token.Claims, taskID string) error {
	if _, err := s.fetchAuthorized(ctx, claims, taskID); err != nil {
		return err
	}

	deleted, err := s.taskRepo.Delete(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return model.NewTaskNotFoundError(taskID)
	}

	slog.Info("task deleted",
		slog.String("task_id", taskID),
		slog.String("user_id", claims.SubjectID()),
	)

	return nil
}

// fetchAuthorized はタスクを取得し、認可ゲートを評価する。
func (s *Service) fetchAuthorized(ctx context.Context, claims *token.Claims, taskID string) (*model.Task, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if d := authz.AuthorizeRecord(claims, t); !d.Allowed() {
		return nil, s.deny(d, taskID)
	}

	return t, nil
}

// deny は認可拒否をメトリクスに記録し、対応するAPIErrorを返す。
func (s *Service) deny(d authz.Decision, taskID string) error {
	if s.denials != nil {
		s.denials.RecordAuthzDenial(d.String())
	}
	switch d {
	case authz.DenyUnauthenticated:
		return model.NewUnauthenticatedError()
	case authz.DenyForbidden:
		return model.NewForbiddenError()
	default:
		return model.NewTaskNotFoundError(taskID)
	}
}

// validateTitle はタイトルの長さ制約を検証する。
func validateTitle(title string) error {
	n := len([]rune(title))
	if n < titleMinLength {
		return model.NewInvalidInputError("タイトルは3文字以上で指定してください。")
	}
	if n > titleMaxLength {
		return model.NewInvalidInputError("タイトルは200文字以内で指定してください。")
	}
	return nil
}
