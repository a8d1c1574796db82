// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限ロールを表す。
type Role string

const (
	// RoleUser は一般ユーザーロール。自分が所有するタスクのみ操作できる。
	RoleUser Role = "user"
	// RoleAdmin は管理者ロール。全タスクの操作とユーザー管理ができる。
	RoleAdmin Role = "admin"
)

// IsValid はロール値がサポートされている値かどうかを返す。
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User はサービス利用ユーザーを表す。
// PasswordHashは書き込み専用であり、APIレスポンスには決して含めない。
// 退会はActive=falseへのソフト遷移のみで、レコードは物理削除しない。
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
