package user

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/taskward/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	listFn       func(ctx context.Context, page model.PageRequest) ([]*model.User, int, error)
	updateRoleFn func(ctx context.Context, id string, role model.Role) (*model.User, error)
	deactivateFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return nil
}
func (m *mockUserRepo) List(ctx context.Context, page model.PageRequest) ([]*model.User, int, error) {
	return m.listFn(ctx, page)
}
func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	return m.updateRoleFn(ctx, id, role)
}
func (m *mockUserRepo) Deactivate(ctx context.Context, id string) (*model.User, error) {
	return m.deactivateFn(ctx, id)
}

func apiErrCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	return apiErr.Code
}

// --- テスト ---

// TestService_ListUsers はユーザー一覧のエンベロープ組み立てを検証する。
func TestService_ListUsers(t *testing.T) {
	repo := &mockUserRepo{
		listFn: func(ctx context.Context, page model.PageRequest) ([]*model.User, int, error) {
			return []*model.User{{ID: "user-1"}, {ID: "user-2"}}, 25, nil
		},
	}

	svc := NewService(repo)

	result, err := svc.ListUsers(context.Background(), model.PageRequest{Page: 1, PageSize: 10}, 100)
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(result.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(result.Items))
	}
	if result.TotalCount != 25 {
		t.Errorf("TotalCount = %d, want 25", result.TotalCount)
	}
	if result.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", result.TotalPages)
	}
}

// TestService_ListUsers_InvalidPage はページネーションパラメータの検証を確認する。
func TestService_ListUsers_InvalidPage(t *testing.T) {
	svc := NewService(&mockUserRepo{})

	_, err := svc.ListUsers(context.Background(), model.PageRequest{Page: 0, PageSize: 10}, 100)
	if code := apiErrCode(t, err); code != model.ErrCodeInvalidInput {
		t.Errorf("Code = %q, want %q", code, model.ErrCodeInvalidInput)
	}
}

// TestService_ChangeRole はロール変更の正常系を検証する。
func TestService_ChangeRole(t *testing.T) {
	var gotRole model.Role
	repo := &mockUserRepo{
		updateRoleFn: func(ctx context.Context, id string, role model.Role) (*model.User, error) {
			gotRole = role
			return &model.User{ID: id, Role: role}, nil
		},
	}

	svc := NewService(repo)

	user, err := svc.ChangeRole(context.Background(), "user-1", model.RoleAdmin)
	if err != nil {
		t.Fatalf("ChangeRole returned error: %v", err)
	}
	if gotRole != model.RoleAdmin {
		t.Errorf("role passed to repo = %q, want %q", gotRole, model.RoleAdmin)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleAdmin)
	}
}

// TestService_ChangeRole_InvalidRole は未知のロール値がINVALID_ROLEになることを検証する。
func TestService_ChangeRole_InvalidRole(t *testing.T) {
	svc := NewService(&mockUserRepo{})

	_, err := svc.ChangeRole(context.Background(), "user-1", model.Role("superuser"))
	if code := apiErrCode(t, err); code != model.ErrCodeInvalidRole {
		t.Errorf("Code = %q, want %q", code, model.ErrCodeInvalidRole)
	}
}

// TestService_ChangeRole_NotFound はユーザー不在がUSER_NOT_FOUNDになることを検証する。
func TestService_ChangeRole_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		updateRoleFn: func(ctx context.Context, id string, role model.Role) (*model.User, error) {
			return nil, nil
		},
	}

	svc := NewService(repo)

	_, err := svc.ChangeRole(context.Background(), "user-gone", model.RoleAdmin)
	if code := apiErrCode(t, err); code != model.ErrCodeUserNotFound {
		t.Errorf("Code = %q, want %q", code, model.ErrCodeUserNotFound)
	}
}

// TestService_Deactivate はソフト無効化を検証する。
func TestService_Deactivate(t *testing.T) {
	repo := &mockUserRepo{
		deactivateFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Active: false}, nil
		},
	}

	svc := NewService(repo)

	user, err := svc.Deactivate(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Deactivate returned error: %v", err)
	}
	if user.Active {
		t.Error("Active = true, want false")
	}
}

// TestService_Deactivate_NotFound はユーザー不在がUSER_NOT_FOUNDになることを検証する。
func TestService_Deactivate_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		deactivateFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := NewService(repo)

	_, err := svc.Deactivate(context.Background(), "user-gone")
	if code := apiErrCode(t, err); code != model.ErrCodeUserNotFound {
		t.Errorf("Code = %q, want %q", code, model.ErrCodeUserNotFound)
	}
}
