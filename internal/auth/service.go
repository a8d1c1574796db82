// Package auth は登録・ログイン・本人確認のビジネスロジックを提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskward/internal/model"
	"github.com/hitoshi/taskward/internal/repository"
	"github.com/hitoshi/taskward/internal/security"
)

// TokenIssuer はセッショントークンの発行インターフェース。
// token.Serviceの部分集合として定義する。
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	tokens   TokenIssuer
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, hasher security.PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Register は新規ユーザーを登録する。
// パスワードは一方向ハッシュとして保存し、生の値は保持しない。
// メールアドレスの重複はDBの一意インデックスで検出するため、
// 同一メールアドレスの同時登録が両方成功することはない。
func (s *Service) Register(ctx context.Context, email, rawPassword, name string) (*model.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if err := validateRegistration(email, rawPassword, name); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewDuplicateEmailError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// Authenticate はメールアドレスとパスワードを検証し、セッショントークンを発行する。
// ユーザー不在とパスワード不一致はどちらもInvalidCredentialsを返し、
// どちらが誤っていたかを呼び出し元から区別できないようにする。
// 無効化済みアカウントは照合成功後にAccountInactiveを返す。
// トークンのクレームは発行時点のスナップショットであり、
// 以後のロール変更は既発行トークンの期限切れまで反映されない。
func (s *Service) Authenticate(ctx context.Context, email, rawPassword string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil || !s.hasher.Matches(rawPassword, user.PasswordHash) {
		return "", nil, model.NewInvalidCredentialsError()
	}

	if !user.Active {
		return "", nil, model.NewAccountInactiveError()
	}

	tok, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return tok, user, nil
}

// CurrentUser は認証済みユーザーの最新のプロフィールをストレージから取得する。
func (s *Service) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}
	return user, nil
}

// validateRegistration は登録入力を検証する。
func validateRegistration(email, rawPassword, name string) error {
	if len(email) < 5 || !strings.Contains(email, "@") {
		return model.NewInvalidInputError("メールアドレスの形式が正しくありません。")
	}
	if len(rawPassword) < 6 {
		return model.NewInvalidInputError("パスワードは6文字以上で指定してください。")
	}
	if len([]rune(name)) < 2 {
		return model.NewInvalidInputError("名前は2文字以上で指定してください。")
	}
	return nil
}
