// Package user はユーザー管理（管理者操作）のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/taskward/internal/model"
	"github.com/hitoshi/taskward/internal/repository"
)

// Service はユーザー管理のサービス層。
// ロール変更・無効化は管理者ロールのみが実行できる（ロールチェックはゲート側で行う）。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// ListUsers はユーザー一覧を作成日時の降順でページネーション付きで返す。
// パスワードハッシュの除外はレスポンス組み立て側で行う。
func (s *Service) ListUsers(ctx context.Context, page model.PageRequest, maxPageSize int) (*model.PageResult[*model.User], error) {
	if err := page.Validate(maxPageSize); err != nil {
		return nil, err
	}

	users, total, err := s.userRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := model.NewPageResult(users, page, total)
	return &result, nil
}

// ChangeRole はユーザーのロールを変更する。
// 変更は次回ログインで発行されるトークンから反映される
// （既発行トークンのクレームは発行時のスナップショットのまま）。
func (s *Service) ChangeRole(ctx context.Context, userID string, role model.Role) (*model.User, error) {
	if !role.IsValid() {
		return nil, model.NewInvalidRoleError(string(role))
	}

	updated, err := s.userRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	if updated == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	slog.Info("user role changed",
		slog.String("user_id", userID),
		slog.String("role", string(role)),
	)

	return updated, nil
}

// Deactivate はユーザーをソフト無効化する（レコードは物理削除しない）。
// 以後のログインはAccountInactiveで拒否されるが、無効化前に発行された
// トークンは自然期限切れまで有効なまま残る（意図したステートレス設計の制約）。
func (s *Service) Deactivate(ctx context.Context, userID string) (*model.User, error) {
	updated, err := s.userRepo.Deactivate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate user: %w", err)
	}
	if updated == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	slog.Info("user deactivated",
		slog.String("user_id", userID),
	)

	return updated, nil
}
