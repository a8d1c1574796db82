// Package security はアプリケーションのセキュリティ機能を提供する。
//
// PasswordHasher は生パスワードから一方向の検証子を導出する。
// 生パスワードは保存せず、検証子から元の値を復元することはできない。
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher はパスワードのハッシュ化と照合のインターフェース。
type PasswordHasher interface {
	// Hash は生パスワードから一方向ハッシュを導出する。
	Hash(rawPassword string) (string, error)
	// Matches は生パスワードがハッシュと一致するかを返す。
	Matches(rawPassword, hash string) bool
}

// BcryptHasher はbcryptを使用したPasswordHasherの実装。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はBcryptHasherを生成する。
// costが有効範囲外の場合はbcrypt.DefaultCostを使用する。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash は生パスワードからbcryptハッシュを導出する。
func (h *BcryptHasher) Hash(rawPassword string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(rawPassword), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// Matches は生パスワードがハッシュと一致するかを返す。
// 照合失敗の理由（ハッシュ不正・不一致）は区別しない。
func (h *BcryptHasher) Matches(rawPassword, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawPassword)) == nil
}

// compile-time interface check
var _ PasswordHasher = (*BcryptHasher)(nil)
