// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/taskward/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意インデックス違反を示す。
// 重複検出はcheck-then-insertではなくDB側の制約で行う（同時登録の競合に安全）。
var ErrDuplicateEmail = errors.New("duplicate email")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する（大文字小文字を区別しない）。
	// 見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// List はユーザー一覧を作成日時の降順（同時刻はID降順）で返す。
	// 戻り値の2番目は同一条件での総件数。
	List(ctx context.Context, page model.PageRequest) ([]*model.User, int, error)

	// UpdateRole はユーザーのロールを単一ステートメントで更新する。
	// 見つからない場合はnilを返す。
	UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error)

	// Deactivate はユーザーをactive=falseに単一ステートメントで更新する。
	// 見つからない場合はnilを返す。
	Deactivate(ctx context.Context, id string) (*model.User, error)
}

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// Create はタスクを作成する。
	Create(ctx context.Context, task *model.Task) error

	// ListByOwner は所有者スコープのタスク一覧をフィルタ・ページネーション付きで返す。
	// 所有者スコープはここで必ず適用され、呼び出し側の入力で上書きできない。
	// 並び順は作成日時の降順、同時刻はID降順（ページ間のドリフト防止）。
	// 戻り値の2番目はページ切り出しと同一フィルタでの総件数。
	ListByOwner(ctx context.Context, ownerID string, filter model.TaskFilter, page model.PageRequest) ([]*model.Task, int, error)

	// Update はタスクを単一ステートメントで部分更新する。
	// patchのnilフィールドは既存値を維持する。見つからない場合はnilを返す。
	Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)

	// Delete は指定IDのタスクを削除する。
	// 削除対象が存在した場合はtrueを返す。
	Delete(ctx context.Context, id string) (bool, error)
}
