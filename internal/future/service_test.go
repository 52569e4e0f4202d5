package future

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/futari/internal/model"
	"github.com/hitoshi/futari/internal/security"
)

// --- モック ---

type mockFutureRepo struct {
	createFn      func(ctx context.Context, item *model.FutureItem) error
	findByIDFn    func(ctx context.Context, id string) (*model.FutureItem, error)
	listByGroupFn func(ctx context.Context, groupID, viewerID string) ([]model.FutureItem, error)
	updateFn      func(ctx context.Context, item *model.FutureItem) error
	deleteFn      func(ctx context.Context, id string) error
}

func (m *mockFutureRepo) Create(ctx context.Context, item *model.FutureItem) error {
	if m.createFn != nil {
		return m.createFn(ctx, item)
	}
	return nil
}
func (m *mockFutureRepo) FindByID(ctx context.Context, id string) (*model.FutureItem, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockFutureRepo) ListByGroup(ctx context.Context, groupID, viewerID string) ([]model.FutureItem, error) {
	if m.listByGroupFn != nil {
		return m.listByGroupFn(ctx, groupID, viewerID)
	}
	return nil, nil
}
func (m *mockFutureRepo) Update(ctx context.Context, item *model.FutureItem) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, item)
	}
	return nil
}
func (m *mockFutureRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}
func (m *mockFutureRepo) LatestUpdatedAtByUser(ctx context.Context, groupID, userID string) (*time.Time, error) {
	return nil, nil
}

type mockGroupResolver struct {
	findByUserIDFn func(ctx context.Context, userID string) (*model.Group, error)
}

func (m *mockGroupResolver) FindByUserID(ctx context.Context, userID string) (*model.Group, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func memberGroupResolver() *mockGroupResolver {
	return &mockGroupResolver{
		findByUserIDFn: func(ctx context.Context, userID string) (*model.Group, error) {
			return &model.Group{ID: "g-1", Name: "太郎 と 花子"}, nil
		},
	}
}

func newTestService(repo *mockFutureRepo, groups GroupResolver) *Service {
	return NewService(repo, groups, security.NewContentSanitizer())
}

func timep(t time.Time) *time.Time { return &t }
func boolp(v bool) *bool           { return &v }

// --- テスト ---

// TestCreateItem_Place は行きたい場所が正しく作成されることを検証する。
func TestCreateItem_Place(t *testing.T) {
	var saved *model.FutureItem
	repo := &mockFutureRepo{
		createFn: func(ctx context.Context, item *model.FutureItem) error {
			saved = item
			return nil
		},
	}
	svc := newTestService(repo, memberGroupResolver())

	item, err := svc.CreateItem(context.Background(), "u-1", CreateItemInput{
		ItemType: "place",
		Title:    "箱根旅行",
		Detail:   "温泉でのんびりしたい",
	})
	if err != nil {
		t.Fatalf("CreateItem returned error: %v", err)
	}

	if saved == nil {
		t.Fatal("expected Create to be called")
	}
	if item.GroupID != "g-1" {
		t.Errorf("GroupID = %q, want %q", item.GroupID, "g-1")
	}
	if item.UserID != "u-1" {
		t.Errorf("UserID = %q, want %q", item.UserID, "u-1")
	}
	if item.Temperature != model.TemperatureWarm {
		t.Errorf("Temperature = %q, want warm (default)", item.Temperature)
	}
}

// TestCreateItem_Anniversary は記念日に日付と重みが必須であることを検証する。
func TestCreateItem_Anniversary(t *testing.T) {
	svc := newTestService(&mockFutureRepo{}, memberGroupResolver())

	// 日付なしはエラー
	_, err := svc.CreateItem(context.Background(), "u-1", CreateItemInput{
		ItemType: "anniversary",
		Title:    "付き合った記念日",
	})
	if err == nil {
		t.Fatal("expected validation error for missing date, got nil")
	}

	// 日付ありなら重みはデフォルトmedium
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	item, err := svc.CreateItem(context.Background(), "u-1", CreateItemInput{
		ItemType:        "anniversary",
		Title:           "付き合った記念日",
		AnniversaryDate: timep(date),
	})
	if err != nil {
		t.Fatalf("CreateItem returned error: %v", err)
	}
	if item.AnniversaryWeight != model.AnniversaryWeightMedium {
		t.Errorf("AnniversaryWeight = %q, want medium (default)", item.AnniversaryWeight)
	}
}

// TestCreateItem_Validation は不正な入力がVALIDATION_FAILEDになることを検証する。
func TestCreateItem_Validation(t *testing.T) {
	svc := newTestService(&mockFutureRepo{}, memberGroupResolver())

	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		input CreateItemInput
	}{
		{"item_type不正値", CreateItemInput{ItemType: "dream", Title: "T"}},
		{"タイトルが空", CreateItemInput{ItemType: "wish", Title: ""}},
		{"タイトルがタグのみ", CreateItemInput{ItemType: "wish", Title: "<script>x</script>"}},
		{"temperature不正値", CreateItemInput{ItemType: "wish", Title: "T", Temperature: "boiling"}},
		{"記念日以外に日付", CreateItemInput{ItemType: "place", Title: "T", AnniversaryDate: timep(date)}},
		{"記念日以外に重み", CreateItemInput{ItemType: "wish", Title: "T", AnniversaryWeight: "heavy"}},
		{"重み不正値", CreateItemInput{ItemType: "anniversary", Title: "T", AnniversaryDate: timep(date), AnniversaryWeight: "super"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateItem(context.Background(), "u-1", tt.input)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T: %v", err, err)
			}
			if apiErr.Code != model.ErrCodeValidationFailed {
				t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeValidationFailed)
			}
		})
	}
}

// TestCreateItem_SurpriseProtected はサプライズ保護フラグが保存されることを検証する。
func TestCreateItem_SurpriseProtected(t *testing.T) {
	svc := newTestService(&mockFutureRepo{}, memberGroupResolver())

	item, err := svc.CreateItem(context.Background(), "u-1", CreateItemInput{
		ItemType:          "wish",
		Title:             "誕生日プレゼントの腕時計",
		SurpriseProtected: true,
	})
	if err != nil {
		t.Fatalf("CreateItem returned error: %v", err)
	}
	if !item.SurpriseProtected {
		t.Error("SurpriseProtected = false, want true")
	}
}

// TestListItems_PassesViewerID は一覧取得に閲覧者IDが渡ることを検証する。
// サプライズ保護のフィルタはリポジトリが閲覧者IDで行う。
func TestListItems_PassesViewerID(t *testing.T) {
	var gotViewerID string
	repo := &mockFutureRepo{
		listByGroupFn: func(ctx context.Context, groupID, viewerID string) ([]model.FutureItem, error) {
			gotViewerID = viewerID
			return []model.FutureItem{{ID: "f-1"}}, nil
		},
	}
	svc := newTestService(repo, memberGroupResolver())

	items, err := svc.ListItems(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListItems returned error: %v", err)
	}
	if gotViewerID != "u-1" {
		t.Errorf("viewerID = %q, want %q", gotViewerID, "u-1")
	}
	if len(items) != 1 {
		t.Errorf("len(items) = %d, want 1", len(items))
	}
}

// TestUpdateItem_ProposerOnly は提案者本人だけが更新できることを検証する。
func TestUpdateItem_ProposerOnly(t *testing.T) {
	repo := &mockFutureRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.FutureItem, error) {
			return &model.FutureItem{
				ID: id, GroupID: "g-1", UserID: "u-1",
				ItemType: model.FutureItemTypeWish, Title: "旧タイトル",
				Temperature: model.TemperatureHot,
			}, nil
		},
	}
	svc := newTestService(repo, memberGroupResolver())

	// 本人は更新できる
	item, err := svc.UpdateItem(context.Background(), "u-1", "f-1", UpdateItemInput{
		Title: "新タイトル",
		Owned: boolp(true),
	})
	if err != nil {
		t.Fatalf("UpdateItem returned error: %v", err)
	}
	if item.Title != "新タイトル" {
		t.Errorf("Title = %q, want 新タイトル", item.Title)
	}
	if item.Owned == nil || !*item.Owned {
		t.Error("Owned = nil or false, want true")
	}
	if item.Temperature != model.TemperatureHot {
		t.Errorf("Temperature = %q, want hot (unchanged)", item.Temperature)
	}

	// 他人は更新できない（アイテムの存在も漏らさない）
	_, err = svc.UpdateItem(context.Background(), "u-2", "f-1", UpdateItemInput{Title: "X"})
	if err == nil {
		t.Fatal("expected error for non-proposer, got nil")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != model.ErrCodeFutureItemNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeFutureItemNotFound)
	}
}

// TestDeleteItem_ProposerOnly は提案者本人だけが削除できることを検証する。
func TestDeleteItem_ProposerOnly(t *testing.T) {
	deleted := false
	repo := &mockFutureRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.FutureItem, error) {
			return &model.FutureItem{ID: id, GroupID: "g-1", UserID: "u-1"}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(repo, memberGroupResolver())

	if err := svc.DeleteItem(context.Background(), "u-2", "f-1"); err == nil {
		t.Fatal("expected error for non-proposer, got nil")
	}
	if deleted {
		t.Error("Delete should not be called for non-proposer")
	}

	if err := svc.DeleteItem(context.Background(), "u-1", "f-1"); err != nil {
		t.Fatalf("DeleteItem returned error: %v", err)
	}
	if !deleted {
		t.Error("expected Delete to be called")
	}
}

// TestDeleteItem_NotFound は存在しないアイテムでFUTURE_ITEM_NOT_FOUNDになることを検証する。
func TestDeleteItem_NotFound(t *testing.T) {
	svc := newTestService(&mockFutureRepo{}, memberGroupResolver())

	err := svc.DeleteItem(context.Background(), "u-1", "missing")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != model.ErrCodeFutureItemNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeFutureItemNotFound)
	}
}
