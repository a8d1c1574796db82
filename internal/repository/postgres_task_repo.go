package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hitoshi/taskward/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

const taskColumns = `id, title, description, completed, owner_id, created_at, updated_at`

// scanTask は1行分のタスクをスキャンする。
func scanTask(row interface{ Scan(dest ...any) error }) (*model.Task, error) {
	task := &model.Task{}
	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Completed,
		&task.OwnerID, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	return task, nil
}

// Create はタスクを作成する。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, completed, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		task.ID, task.Title, task.Description, task.Completed,
		task.OwnerID, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// buildTaskFilter は所有者スコープとフィルタからWHERE句とバインド引数を構築する。
// 所有者スコープは常に先頭に適用され、クライアント入力で上書きできない。
func buildTaskFilter(ownerID string, filter model.TaskFilter) (string, []any) {
	where := []string{"owner_id = $1"}
	args := []any{ownerID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		where = append(where, fmt.Sprintf("completed = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("title ILIKE $%d", len(args)))
	}

	return strings.Join(where, " AND "), args
}

// ListByOwner は所有者スコープのタスク一覧をフィルタ・ページネーション付きで返す。
// 総件数はページ切り出しと同一のWHERE句で算出する（キャッシュ値は使わない）。
func (r *PostgresTaskRepo) ListByOwner(ctx context.Context, ownerID string, filter model.TaskFilter, page model.PageRequest) ([]*model.Task, int, error) {
	whereSQL, args := buildTaskFilter(ownerID, filter)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE `+whereSQL, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	// 同時刻のタスクはID降順で順序を固定し、ページ間の結果ドリフトを防ぐ
	query := fmt.Sprintf(
		`SELECT `+taskColumns+` FROM tasks WHERE %s
		 ORDER BY created_at DESC, id DESC
		 LIMIT $%d OFFSET $%d`,
		whereSQL, len(args)+1, len(args)+2,
	)
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, total, nil
}

// Update はタスクを単一ステートメントで部分更新する。
// nilフィールドはCOALESCEで既存値を維持するため、同時更新が交錯しても
// 失われた更新（lost update）は行単位では発生しない。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx,
		`UPDATE tasks SET
		   title       = COALESCE($2, title),
		   description = COALESCE($3, description),
		   completed   = COALESCE($4, completed),
		   updated_at  = now()
		 WHERE id = $1
		 RETURNING `+taskColumns,
		id, patch.Title, patch.Description, patch.Completed,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Delete は指定IDのタスクを削除する。削除対象が存在した場合はtrueを返す。
func (r *PostgresTaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
