// Package future は将来の予定・希望（行きたい場所、ほしい物、記念日）の
// 管理ロジックを提供する。
package future

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

// CreateItemInput は未来アイテム作成の入力。
type CreateItemInput struct {
	ItemType          string
	Title             string
	Detail            string
	Temperature       string
	SurpriseProtected bool
	AnniversaryDate   *time.Time
	AnniversaryWeight string
	PreDiscussion     *bool
	Reason            string
}

// UpdateItemInput は未来アイテム更新の入力。
type UpdateItemInput struct {
	Title             string
	Detail            string
	Temperature       string
	SurpriseProtected bool
	AnniversaryDate   *time.Time
	AnniversaryWeight string
	PreDiscussion     *bool
	Owned             *bool
	Reason            string
}

// Service は未来アイテム管理のサービス層。
// サプライズ保護されたアイテムは提案者にしか見えず、更新・削除も提案者に限る。
type Service struct {
	futureRepo repository.FutureRepository
	groups     GroupResolver
	sanitizer  security.ContentSanitizerService
	now        func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	futureRepo repository.FutureRepository,
	groups GroupResolver,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		futureRepo: futureRepo,
		groups:     groups,
		sanitizer:  sanitizer,
		now:        time.Now,
	}
}

// CreateItem は未来アイテムを作成する。
func (s *Service) CreateItem(ctx context.Context, userID string, input CreateItemInput) (*model.FutureItem, error) {
	itemType := model.FutureItemType(input.ItemType)
	if !itemType.Valid() {
		return nil, model.NewValidationError("item_type", fmt.Sprintf("無効な値です: %s", input.ItemType))
	}

	title := s.sanitizer.Sanitize(input.Title)
	if title == "" {
		return nil, model.NewValidationError("title", "タイトルを入力してください")
	}

	temperature := model.Temperature(input.Temperature)
	if input.Temperature == "" {
		temperature = model.TemperatureWarm
	}
	if !temperature.Valid() {
		return nil, model.NewValidationError("temperature", fmt.Sprintf("無効な値です: %s", input.Temperature))
	}

	var weight model.AnniversaryWeight
	if itemType == model.FutureItemTypeAnniversary {
		if input.AnniversaryDate == nil {
			return nil, model.NewValidationError("anniversary_date", "記念日の日付を指定してください")
		}
		weight = model.AnniversaryWeight(input.AnniversaryWeight)
		if input.AnniversaryWeight == "" {
			weight = model.AnniversaryWeightMedium
		}
		if !weight.Valid() {
			return nil, model.NewValidationError("anniversary_weight", fmt.Sprintf("無効な値です: %s", input.AnniversaryWeight))
		}
	} else if input.AnniversaryDate != nil || input.AnniversaryWeight != "" {
		return nil, model.NewValidationError("anniversary_date", "記念日以外では指定できません")
	}

	g, err := s.groups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGroupNotFoundError()
	}

	now := s.now().UTC()
	item := &model.FutureItem{
		ID:                uuid.New().String(),
		GroupID:           g.ID,
		UserID:            userID,
		ItemType:          itemType,
		Title:             title,
		Detail:            s.sanitizer.Sanitize(input.Detail),
		Temperature:       temperature,
		SurpriseProtected: input.SurpriseProtected,
		AnniversaryDate:   input.AnniversaryDate,
		AnniversaryWeight: weight,
		PreDiscussion:     input.PreDiscussion,
		Reason:            s.sanitizer.Sanitize(input.Reason),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.futureRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("未来アイテムの作成に失敗しました: %w", err)
	}

	slog.Info("未来アイテムを作成しました",
		slog.String("item_id", item.ID),
		slog.String("group_id", g.ID),
		slog.String("item_type", string(itemType)),
		slog.Bool("surprise_protected", item.SurpriseProtected),
	)

	return item, nil
}

// ListItems はグループの未来アイテムを新しい順に返す。
// 他人のサプライズ保護アイテムは含まれない（フィルタはリポジトリが保証する）。
func (s *Service) ListItems(ctx context.Context, userID string) ([]model.FutureItem, error) {
	g, err := s.groups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGroupNotFoundError()
	}

	items, err := s.futureRepo.ListByGroup(ctx, g.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("未来アイテム一覧の取得に失敗しました: %w", err)
	}
	return items, nil
}

// UpdateItem は未来アイテムを更新する。提案者本人だけが更新できる。
func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, input UpdateItemInput) (*model.FutureItem, error) {
	item, err := s.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	title := s.sanitizer.Sanitize(input.Title)
	if title == "" {
		return nil, model.NewValidationError("title", "タイトルを入力してください")
	}

	temperature := model.Temperature(input.Temperature)
	if input.Temperature == "" {
		temperature = item.Temperature
	}
	if !temperature.Valid() {
		return nil, model.NewValidationError("temperature", fmt.Sprintf("無効な値です: %s", input.Temperature))
	}

	if input.AnniversaryWeight != "" {
		weight := model.AnniversaryWeight(input.AnniversaryWeight)
		if !weight.Valid() {
			return nil, model.NewValidationError("anniversary_weight", fmt.Sprintf("無効な値です: %s", input.AnniversaryWeight))
		}
		item.AnniversaryWeight = weight
	}

	item.Title = title
	item.Detail = s.sanitizer.Sanitize(input.Detail)
	item.Temperature = temperature
	item.SurpriseProtected = input.SurpriseProtected
	if input.AnniversaryDate != nil {
		item.AnniversaryDate = input.AnniversaryDate
	}
	if input.PreDiscussion != nil {
		item.PreDiscussion = input.PreDiscussion
	}
	if input.Owned != nil {
		item.Owned = input.Owned
	}
	item.Reason = s.sanitizer.Sanitize(input.Reason)
	item.UpdatedAt = s.now().UTC()

	if err := s.futureRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("未来アイテムの更新に失敗しました: %w", err)
	}

	return item, nil
}

// DeleteItem は未来アイテムを削除する。提案者本人だけが削除できる。
func (s *Service) DeleteItem(ctx context.Context, userID, itemID string) error {
	item, err := s.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if err := s.futureRepo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("未来アイテムの削除に失敗しました: %w", err)
	}

	slog.Info("未来アイテムを削除しました",
		slog.String("item_id", item.ID),
		slog.String("group_id", item.GroupID),
	)

	return nil
}

// findOwnedItem はアイテムを取得し、提案者本人であることを確認する。
// 他人のアイテムは存在ごと秘匿する（特にサプライズ保護の漏えい防止）。
func (s *Service) findOwnedItem(ctx context.Context, userID, itemID string) (*model.FutureItem, error) {
	item, err := s.futureRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("未来アイテムの取得に失敗しました: %w", err)
	}
	if item == nil || item.UserID != userID {
		return nil, model.NewFutureItemNotFoundError(itemID)
	}
	return item, nil
}
