package model

import "time"

// Task はユーザーが所有するタスクを表す。
// OwnerIDは作成時に認証済みユーザーのIDが設定され、以後変更されない。
type Task struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch はタスクの部分更新を表す。
// nilフィールドは変更せず、既存の値を維持する。
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}
