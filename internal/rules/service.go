// Package rules はふたりの決め事（ルール）と同棲チェックリストの
// 管理ロジックを提供する。
package rules

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/futari/internal/model"
	"github.com/hitoshi/futari/internal/repository"
	"github.com/hitoshi/futari/internal/security"
)

// GroupResolver はユーザーの所属グループの解決インターフェース。
type GroupResolver interface {
	FindByUserID(ctx context.Context, userID string) (*model.Group, error)
}

// CreateRuleInput はルール作成の入力。
type CreateRuleInput struct {
	Category string
	Title    string
	Content  string
	Memo     string
}

// UpdateRuleInput はルール更新の入力。
type UpdateRuleInput struct {
	Category string
	Title    string
	Content  string
	Memo     string
}

// UpdateChecklistInput はチェック項目更新の入力。
type UpdateChecklistInput struct {
	Status     string
	Conclusion string
	Memo       string
}

// Service はルール・チェックリスト管理のサービス層。
// ルールはグループの共有物なので、作成者に関わらずどちらのメンバーも編集できる。
type Service struct {
	ruleRepo      repository.RuleRepository
	checklistRepo repository.ChecklistRepository
	groups        GroupResolver
	sanitizer     security.ContentSanitizerService
	now           func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	ruleRepo repository.RuleRepository,
	checklistRepo repository.ChecklistRepository,
	groups GroupResolver,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		ruleRepo:      ruleRepo,
		checklistRepo: checklistRepo,
		groups:        groups,
		sanitizer:     sanitizer,
		now:           time.Now,
	}
}

const maxTitleLength = 200

// CreateRule はルールを作成する。
func (s *Service) CreateRule(ctx context.Context, userID string, input CreateRuleInput) (*model.Rule, error) {
	category := model.RuleCategory(input.Category)
	if !category.Valid() {
		return nil, model.NewValidationError("category", fmt.Sprintf("無効な値です: %s", input.Category))
	}

	title := s.sanitizer.Sanitize(input.Title)
	if title == "" {
		return nil, model.NewValidationError("title", "タイトルを入力してください")
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, model.NewValidationError("title", fmt.Sprintf("%d文字以内で入力してください", maxTitleLength))
	}
	content := s.sanitizer.Sanitize(input.Content)
	if content == "" {
		return nil, model.NewValidationError("content", "内容を入力してください")
	}

	g, err := s.groups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGroupNotFoundError()
	}

	now := s.now().UTC()
	rule := &model.Rule{
		ID:        uuid.New().String(),
		GroupID:   g.ID,
		Category:  category,
		Title:     title,
		Content:   content,
		Memo:      s.sanitizer.Sanitize(input.Memo),
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("ルールの作成に失敗しました: %w", err)
	}

	slog.Info("ルールを作成しました",
		slog.String("rule_id", rule.ID),
		slog.String("group_id", g.ID),
		slog.String("category", string(category)),
	)

	return rule, nil
}

// ListRules はグループのルールを新しい順に返す。
func (s *Service) ListRules(ctx context.Context, userID string) ([]model.Rule, error) {
	g, err := s.groups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGroupNotFoundError()
	}

	rules, err := s.ruleRepo.ListByGroup(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("ルール一覧の取得に失敗しました: %w", err)
	}
	return rules, nil
}

// UpdateRule はルールを更新する。同じグループのメンバーなら誰でも編集できる。
func (s *Service) UpdateRule(ctx context.Context, userID, ruleID string, input UpdateRuleInput) (*model.Rule, error) {
	category := model.RuleCategory(input.Category)
	if !category.Valid() {
		return nil, model.NewValidationError("category", fmt.Sprintf("無効な値です: %s", input.Category))
	}

	title := s.sanitizer.Sanitize(input.Title)
	if title == "" {
		return nil, model.NewValidationError("title", "タイトルを入力してください")
	}
	content := s.sanitizer.Sanitize(input.Content)
	if content == "" {
		return nil, model.NewValidationError("content", "内容を入力してください")
	}

	g, err := s.groups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGroupNotFoundError()
	}

	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("ルールの取得に失敗しました: %w", err)
	}
	if rule == nil || rule.GroupID != g.ID {
		return nil, model.NewRuleNotFoundError(ruleID)
	}

	rule.Category = category
	rule.Title = title
	rule.Content = content
	rule.Memo = s.sanitizer.Sanitize(input.Memo)
	rule.UpdatedAt = s.now().UTC()

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("ルールの更新に失敗しました: %w", err)
	}

	return rule, nil
}

// ListChecklist はグループの同棲チェック項目をカテゴリ順に返す。
func (s *Service) ListChecklist(ctx context.Context, userID string) ([]model.ChecklistItem, error) {
	g, err := s.groups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGroupNotFoundError()
	}

	items, err := s.checklistRepo.ListByGroup(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("チェック項目一覧の取得に失敗しました: %w", err)
	}
	return items, nil
}

// UpdateChecklistItem はチェック項目の状態・結論・備考を更新する。
// 「話し合い済み」への遷移に結論は必須としない（結論が出なかったことも記録のうち）。
func (s *Service) UpdateChecklistItem(ctx context.Context, userID, itemID string, input UpdateChecklistInput) (*model.ChecklistItem, error) {
	status := model.ChecklistStatus(input.Status)
	if !status.Valid() {
		return nil, model.NewValidationError("status", fmt.Sprintf("無効な値です: %s", input.Status))
	}

	g, err := s.groups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGroupNotFoundError()
	}

	item, err := s.checklistRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("チェック項目の取得に失敗しました: %w", err)
	}
	if item == nil || item.GroupID != g.ID {
		return nil, model.NewChecklistItemNotFoundError(itemID)
	}

	item.Status = status
	item.Conclusion = s.sanitizer.Sanitize(input.Conclusion)
	item.Memo = s.sanitizer.Sanitize(input.Memo)
	item.UpdatedAt = s.now().UTC()

	if err := s.checklistRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("チェック項目の更新に失敗しました: %w", err)
	}

	return item, nil
}
