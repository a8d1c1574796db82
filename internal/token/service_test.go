package token

import (
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/taskward/internal/model"
)

const testSecret = "test-secret-key-for-unit-tests"

func testUser() *model.User {
	return &model.User{
		ID:    "user-1",
		Email: "alice@example.com",
		Name:  "Alice",
		Role:  model.RoleUser,
	}
}

// TestService_IssueAndVerify は発行したトークンが検証を通過し、
// クレームが発行時のスナップショットを保持することを確認する。
func TestService_IssueAndVerify(t *testing.T) {
	svc := NewService(testSecret, time.Hour)

	raw, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := svc.Verify(raw)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if claims.SubjectID() != "user-1" {
		t.Errorf("SubjectID() = %q, want %q", claims.SubjectID(), "user-1")
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "alice@example.com")
	}
	if claims.Role != model.RoleUser {
		t.Errorf("Role = %q, want %q", claims.Role, model.RoleUser)
	}
	if claims.Name != "Alice" {
		t.Errorf("Name = %q, want %q", claims.Name, "Alice")
	}
}

// TestService_Verify_Missing はトークン未提示がErrTokenMissingになることを確認する。
func TestService_Verify_Missing(t *testing.T) {
	svc := NewService(testSecret, time.Hour)

	if _, err := svc.Verify(""); !errors.Is(err, ErrTokenMissing) {
		t.Errorf("Verify(\"\") error = %v, want ErrTokenMissing", err)
	}
}

// TestService_Verify_Expired は期限切れトークンがErrTokenExpiredに分類されることを確認する。
func TestService_Verify_Expired(t *testing.T) {
	// 負のlifetimeで発行時点から期限切れのトークンを作る
	svc := NewService(testSecret, -time.Minute)

	raw, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := svc.Verify(raw); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify error = %v, want ErrTokenExpired", err)
	}
}

// TestService_Verify_WrongSecret は別の鍵で署名されたトークンが
// 期限切れではなくErrTokenInvalidになることを確認する。
func TestService_Verify_WrongSecret(t *testing.T) {
	other := NewService("another-secret", time.Hour)
	raw, err := other.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	svc := NewService(testSecret, time.Hour)
	if _, err := svc.Verify(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify error = %v, want ErrTokenInvalid", err)
	}
}

// TestService_Verify_Tampered は改ざんされたトークンがErrTokenInvalidになることを確認する。
func TestService_Verify_Tampered(t *testing.T) {
	svc := NewService(testSecret, time.Hour)

	raw, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	tampered := raw[:len(raw)-2] + "xx"
	if _, err := svc.Verify(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify error = %v, want ErrTokenInvalid", err)
	}

	if _, err := svc.Verify("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify(garbage) error = %v, want ErrTokenInvalid", err)
	}
}
