package group

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/futari/internal/model"
)

// --- モック ---

type mockGroupRepo struct {
	findByIDFn         func(ctx context.Context, id string) (*model.Group, error)
	findByUserIDFn     func(ctx context.Context, userID string) (*model.Group, error)
	listMembersFn      func(ctx context.Context, groupID string) ([]model.GroupMember, error)
	ensureMembershipFn func(ctx context.Context, userID, userName string) (string, error)
	updateNameFn       func(ctx context.Context, groupID, name string) error
}

func (m *mockGroupRepo) FindByID(ctx context.Context, id string) (*model.Group, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockGroupRepo) FindByUserID(ctx context.Context, userID string) (*model.Group, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, nil
}
func (m *mockGroupRepo) ListMembers(ctx context.Context, groupID string) ([]model.GroupMember, error) {
	if m.listMembersFn != nil {
		return m.listMembersFn(ctx, groupID)
	}
	return nil, nil
}
func (m *mockGroupRepo) EnsureMembership(ctx context.Context, userID, userName string) (string, error) {
	if m.ensureMembershipFn != nil {
		return m.ensureMembershipFn(ctx, userID, userName)
	}
	return "", nil
}
func (m *mockGroupRepo) UpdateName(ctx context.Context, groupID, name string) error {
	if m.updateNameFn != nil {
		return m.updateNameFn(ctx, groupID, name)
	}
	return nil
}

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) UpdateName(ctx context.Context, id, name string) error {
	return nil
}

type mockCollector struct {
	pairings []string
}

func (m *mockCollector) RecordPairing(result string)           { m.pairings = append(m.pairings, result) }
func (m *mockCollector) RecordViewRecorded(domain string)      {}
func (m *mockCollector) RecordViewRecordFailure(domain string) {}
func (m *mockCollector) RecordBadgeComputation()               {}
func (m *mockCollector) RecordHTTPStatus(statusCode int)       {}
func (m *mockCollector) RecordRequestLatency(d time.Duration)  {}

func userByID(users map[string]*model.User) func(ctx context.Context, id string) (*model.User, error) {
	return func(ctx context.Context, id string) (*model.User, error) {
		return users[id], nil
	}
}

// --- テスト ---

// TestEnsureGroupFor_AlreadyMember は所属済みユーザーに既存グループIDを返すことを検証する。
func TestEnsureGroupFor_AlreadyMember(t *testing.T) {
	collector := &mockCollector{}
	groupRepo := &mockGroupRepo{
		findByUserIDFn: func(ctx context.Context, userID string) (*model.Group, error) {
			return &model.Group{ID: "g-1", Name: "太郎 と 花子"}, nil
		},
		ensureMembershipFn: func(ctx context.Context, userID, userName string) (string, error) {
			return "g-1", nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: userByID(map[string]*model.User{
			"u-1": {ID: "u-1", Name: "太郎"},
		}),
	}

	svc := NewService(groupRepo, userRepo, collector)

	groupID, err := svc.EnsureGroupFor(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("EnsureGroupFor returned error: %v", err)
	}
	if groupID != "g-1" {
		t.Errorf("groupID = %q, want %q", groupID, "g-1")
	}
	if len(collector.pairings) != 1 || collector.pairings[0] != "existing" {
		t.Errorf("pairings = %v, want [existing]", collector.pairings)
	}
}

// TestEnsureGroupFor_Idempotent は同じユーザーで繰り返し呼んでも同じグループIDが返ることを検証する。
func TestEnsureGroupFor_Idempotent(t *testing.T) {
	ensureCalls := 0
	groupRepo := &mockGroupRepo{
		findByUserIDFn: func(ctx context.Context, userID string) (*model.Group, error) {
			if ensureCalls == 0 {
				return nil, nil
			}
			return &model.Group{ID: "g-1"}, nil
		},
		ensureMembershipFn: func(ctx context.Context, userID, userName string) (string, error) {
			ensureCalls++
			return "g-1", nil
		},
		listMembersFn: func(ctx context.Context, groupID string) ([]model.GroupMember, error) {
			return []model.GroupMember{{ID: 1, GroupID: "g-1", UserID: "u-1"}}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: userByID(map[string]*model.User{
			"u-1": {ID: "u-1", Name: "太郎"},
		}),
	}

	svc := NewService(groupRepo, userRepo, nil)

	first, err := svc.EnsureGroupFor(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("1st EnsureGroupFor returned error: %v", err)
	}
	second, err := svc.EnsureGroupFor(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("2nd EnsureGroupFor returned error: %v", err)
	}
	if first != second {
		t.Errorf("groupID changed between calls: %q -> %q", first, second)
	}
}

// TestEnsureGroupFor_RepoError_ReturnsGroupCreationFailed はリポジトリ失敗時に
// GROUP_CREATION_FAILEDへ変換されることを検証する。
func TestEnsureGroupFor_RepoError_ReturnsGroupCreationFailed(t *testing.T) {
	collector := &mockCollector{}
	groupRepo := &mockGroupRepo{
		ensureMembershipFn: func(ctx context.Context, userID, userName string) (string, error) {
			return "", errors.New("db down")
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: userByID(map[string]*model.User{
			"u-1": {ID: "u-1", Name: "太郎"},
		}),
	}

	svc := NewService(groupRepo, userRepo, collector)

	_, err := svc.EnsureGroupFor(context.Background(), "u-1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != model.ErrCodeGroupCreationFailed {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeGroupCreationFailed)
	}
	if len(collector.pairings) != 1 || collector.pairings[0] != "failed" {
		t.Errorf("pairings = %v, want [failed]", collector.pairings)
	}
}

// TestEnsureGroupFor_UserNotFound は存在しないユーザーでUSER_NOT_FOUNDになることを検証する。
func TestEnsureGroupFor_UserNotFound(t *testing.T) {
	svc := NewService(&mockGroupRepo{}, &mockUserRepo{}, nil)

	_, err := svc.EnsureGroupFor(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeUserNotFound)
	}
}

// TestGetPartner_ReturnsOtherMember はパートナー参加済みの場合に相手のユーザーが返ることを検証する。
func TestGetPartner_ReturnsOtherMember(t *testing.T) {
	groupRepo := &mockGroupRepo{
		findByUserIDFn: func(ctx context.Context, userID string) (*model.Group, error) {
			return &model.Group{ID: "g-1", Name: "太郎 と 花子"}, nil
		},
		listMembersFn: func(ctx context.Context, groupID string) ([]model.GroupMember, error) {
			return []model.GroupMember{
				{ID: 1, GroupID: "g-1", UserID: "u-1"},
				{ID: 2, GroupID: "g-1", UserID: "u-2"},
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: userByID(map[string]*model.User{
			"u-1": {ID: "u-1", Name: "太郎"},
			"u-2": {ID: "u-2", Name: "花子"},
		}),
	}

	svc := NewService(groupRepo, userRepo, nil)

	partner, err := svc.GetPartner(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetPartner returned error: %v", err)
	}
	if partner == nil {
		t.Fatal("expected partner, got nil")
	}
	if partner.ID != "u-2" {
		t.Errorf("partner.ID = %q, want %q", partner.ID, "u-2")
	}
}

// TestGetPartner_Waiting_ReturnsNilNil はパートナー未参加の場合に(nil, nil)が返ることを検証する。
// 待機中はエラーではない。
func TestGetPartner_Waiting_ReturnsNilNil(t *testing.T) {
	groupRepo := &mockGroupRepo{
		findByUserIDFn: func(ctx context.Context, userID string) (*model.Group, error) {
			return &model.Group{ID: "g-1", Name: "太郎 (パートナー待ち)"}, nil
		},
		listMembersFn: func(ctx context.Context, groupID string) ([]model.GroupMember, error) {
			return []model.GroupMember{
				{ID: 1, GroupID: "g-1", UserID: "u-1"},
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: userByID(map[string]*model.User{
			"u-1": {ID: "u-1", Name: "太郎"},
		}),
	}

	svc := NewService(groupRepo, userRepo, nil)

	partner, err := svc.GetPartner(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetPartner returned error: %v", err)
	}
	if partner != nil {
		t.Errorf("expected nil partner while waiting, got %+v", partner)
	}
}

// TestGetPartner_NoGroup_ReturnsNilNil はグループ未所属でも(nil, nil)が返ることを検証する。
// 「相手がいない」状態はグループ有無によらずエラーにしない。
func TestGetPartner_NoGroup_ReturnsNilNil(t *testing.T) {
	svc := NewService(&mockGroupRepo{}, &mockUserRepo{}, nil)

	partner, err := svc.GetPartner(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetPartner returned error: %v", err)
	}
	if partner != nil {
		t.Errorf("expected nil partner without a group, got %+v", partner)
	}
}

// TestGetGroup_Waiting はメンバー1人のグループがWaiting=trueで返ることを検証する。
func TestGetGroup_Waiting(t *testing.T) {
	groupRepo := &mockGroupRepo{
		findByUserIDFn: func(ctx context.Context, userID string) (*model.Group, error) {
			return &model.Group{ID: "g-1", Name: "太郎 (パートナー待ち)"}, nil
		},
		listMembersFn: func(ctx context.Context, groupID string) ([]model.GroupMember, error) {
			return []model.GroupMember{
				{ID: 1, GroupID: "g-1", UserID: "u-1"},
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: userByID(map[string]*model.User{
			"u-1": {ID: "u-1", Name: "太郎"},
		}),
	}

	svc := NewService(groupRepo, userRepo, nil)

	info, err := svc.GetGroup(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetGroup returned error: %v", err)
	}
	if !info.Waiting {
		t.Error("expected Waiting=true for single-member group")
	}
	if len(info.Members) != 1 {
		t.Errorf("len(Members) = %d, want 1", len(info.Members))
	}
}

// TestRefreshGroupName_TwoMembers_JoinOrder は名前の並びが参加順であることを検証する。
func TestRefreshGroupName_TwoMembers_JoinOrder(t *testing.T) {
	var updatedName string
	groupRepo := &mockGroupRepo{
		listMembersFn: func(ctx context.Context, groupID string) ([]model.GroupMember, error) {
			// id昇順 = 参加順: 花子が先に待っていた
			return []model.GroupMember{
				{ID: 1, GroupID: "g-1", UserID: "u-2"},
				{ID: 2, GroupID: "g-1", UserID: "u-1"},
			}, nil
		},
		updateNameFn: func(ctx context.Context, groupID, name string) error {
			updatedName = name
			return nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: userByID(map[string]*model.User{
			"u-1": {ID: "u-1", Name: "太郎"},
			"u-2": {ID: "u-2", Name: "花子"},
		}),
	}

	svc := NewService(groupRepo, userRepo, nil)

	if err := svc.RefreshGroupName(context.Background(), "g-1"); err != nil {
		t.Fatalf("RefreshGroupName returned error: %v", err)
	}
	if updatedName != "花子 と 太郎" {
		t.Errorf("updatedName = %q, want %q", updatedName, "花子 と 太郎")
	}
}

// TestRefreshGroupName_SingleMember_Placeholder は待機中グループがプレースホルダー名になることを検証する。
func TestRefreshGroupName_SingleMember_Placeholder(t *testing.T) {
	var updatedName string
	groupRepo := &mockGroupRepo{
		listMembersFn: func(ctx context.Context, groupID string) ([]model.GroupMember, error) {
			return []model.GroupMember{
				{ID: 1, GroupID: "g-1", UserID: "u-1"},
			}, nil
		},
		updateNameFn: func(ctx context.Context, groupID, name string) error {
			updatedName = name
			return nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: userByID(map[string]*model.User{
			"u-1": {ID: "u-1", Name: "太郎"},
		}),
	}

	svc := NewService(groupRepo, userRepo, nil)

	if err := svc.RefreshGroupName(context.Background(), "g-1"); err != nil {
		t.Fatalf("RefreshGroupName returned error: %v", err)
	}
	if updatedName != "太郎 (パートナー待ち)" {
		t.Errorf("updatedName = %q, want %q", updatedName, "太郎 (パートナー待ち)")
	}
}
