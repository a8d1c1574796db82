// Package token は署名付きセッショントークンの発行と検証を提供する。
//
// トークンはステートレスであり、サーバー側には保存しない。
// 有効性は署名検証と有効期限の比較のみで判定する（I/Oなしの純粋計算）。
// クレームは発行時点のスナップショットであるため、発行後のロール変更や
// アカウント無効化は、既発行トークンの自然期限切れまで反映されない。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/taskward/internal/model"
)

// 検証失敗の内部分類。ハンドラー層でログ・レスポンスの出し分けに使用する。
var (
	// ErrTokenMissing はトークンが提示されなかったことを示す。
	ErrTokenMissing = errors.New("token missing")
	// ErrTokenInvalid はトークンの形式不正または署名不一致を示す。
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired は署名は正当だが有効期限が過ぎていることを示す。
	ErrTokenExpired = errors.New("token expired")
)

// Claims はセッショントークンに埋め込む識別情報を表す。
// SubjectにはユーザーIDを格納する。
type Claims struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	Name  string     `json:"name"`
	jwt.RegisteredClaims
}

// SubjectID はトークンの対象ユーザーIDを返す。
func (c *Claims) SubjectID() string {
	return c.Subject
}

// Service は署名付きトークンの発行・検証サービス。
type Service struct {
	secret   []byte
	lifetime time.Duration
}

// NewService はServiceを生成する。
// lifetimeは発行するトークンの有効期間（expiresAt - issuedAt）で、デプロイごとに固定。
func NewService(secret string, lifetime time.Duration) *Service {
	return &Service{
		secret:   []byte(secret),
		lifetime: lifetime,
	}
}

// Issue はユーザーの識別情報をスナップショットしたトークンを発行する。
func (s *Service) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: user.Email,
		Role:  user.Role,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンを検証し、クレームを返す。
// 失敗はErrTokenMissing、ErrTokenInvalid、ErrTokenExpiredのいずれかに分類される。
func (s *Service) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		// 期限切れは署名が正当な場合のみ区別して返す
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
