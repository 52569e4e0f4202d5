// Package state はユーザーの現在状態（機嫌・会話・距離感・生活状況）の
// 管理ロジックを提供する。
package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/futari/internal/model"
	"github.com/hitoshi/futari/internal/repository"
)

// GroupResolver はユーザーの所属グループの解決インターフェース。
type GroupResolver interface {
	FindByUserID(ctx context.Context, userID string) (*model.Group, error)
}

// PartnerResolver はパートナーの解決インターフェース。
type PartnerResolver interface {
	GetPartner(ctx context.Context, userID string) (*model.User, error)
}

// Service は状態管理のサービス層。
type Service struct {
	stateRepo repository.StateRepository
	groups    GroupResolver
	partners  PartnerResolver
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	stateRepo repository.StateRepository,
	groups GroupResolver,
	partners PartnerResolver,
) *Service {
	return &Service{
		stateRepo: stateRepo,
		groups:    groups,
		partners:  partners,
		now:       time.Now,
	}
}

// 選択式フィールドの許容値
var (
	validTalkStates         = map[string]bool{"ok": true, "later": true, "no": true}
	validTalkDepths         = map[string]bool{"light": true, "normal": true, "deep": true}
	validTalkStyles         = map[string]bool{"casual": true, "serious": true, "gentle": true}
	validDistances          = map[string]bool{"close": true, "normal": true, "need_space": true}
	validConflictTolerances = map[string]bool{"high": true, "medium": true, "low": true}
	validLifeStatuses       = map[string]bool{"home": true, "work": true, "out": true, "sleeping": true}
	validFreeTimes          = map[string]bool{"none": true, "little": true, "some": true, "plenty": true}
	validLifeTempos         = map[string]bool{"slow": true, "normal": true, "fast": true}
)

// validate は部分更新データの各フィールドを検証する。
// nilのフィールドは「変更なし」なので検証しない。
func validate(data *model.StateData) error {
	if data.Mood != nil && (*data.Mood < 1 || *data.Mood > 5) {
		return model.NewValidationError("mood", "1〜5で指定してください")
	}

	checkEnum := func(field string, value *string, allowed map[string]bool) error {
		if value != nil && !allowed[*value] {
			return model.NewValidationError(field, fmt.Sprintf("無効な値です: %s", *value))
		}
		return nil
	}

	if err := checkEnum("talk_state", data.TalkState, validTalkStates); err != nil {
		return err
	}
	if err := checkEnum("talk_depth", data.TalkDepth, validTalkDepths); err != nil {
		return err
	}
	if err := checkEnum("talk_style", data.TalkStyle, validTalkStyles); err != nil {
		return err
	}
	if err := checkEnum("distance", data.Distance, validDistances); err != nil {
		return err
	}
	if err := checkEnum("conflict_tolerance", data.ConflictTolerance, validConflictTolerances); err != nil {
		return err
	}
	if err := checkEnum("life_status", data.LifeStatus, validLifeStatuses); err != nil {
		return err
	}
	if err := checkEnum("free_time", data.FreeTime, validFreeTimes); err != nil {
		return err
	}
	if err := checkEnum("life_tempo", data.LifeTempo, validLifeTempos); err != nil {
		return err
	}

	if data.SoloUntil != nil {
		if _, err := time.Parse(time.RFC3339, *data.SoloUntil); err != nil {
			return model.NewValidationError("solo_until", "ISO8601形式で指定してください")
		}
	}

	return nil
}

// merge はpatchのnilでないフィールドだけをcurrentに上書きする。
func merge(current, patch model.StateData) model.StateData {
	if patch.Mood != nil {
		current.Mood = patch.Mood
	}
	if patch.MoodReasonTags != nil {
		current.MoodReasonTags = patch.MoodReasonTags
	}
	if patch.Note != nil {
		current.Note = patch.Note
	}
	if patch.TalkState != nil {
		current.TalkState = patch.TalkState
	}
	if patch.TalkDepth != nil {
		current.TalkDepth = patch.TalkDepth
	}
	if patch.TalkStyle != nil {
		current.TalkStyle = patch.TalkStyle
	}
	if patch.Distance != nil {
		current.Distance = patch.Distance
	}
	if patch.ConflictTolerance != nil {
		current.ConflictTolerance = patch.ConflictTolerance
	}
	if patch.LifeStatus != nil {
		current.LifeStatus = patch.LifeStatus
	}
	if patch.QuietMode != nil {
		current.QuietMode = patch.QuietMode
	}
	if patch.SoloUntil != nil {
		current.SoloUntil = patch.SoloUntil
	}
	if patch.FreeTime != nil {
		current.FreeTime = patch.FreeTime
	}
	if patch.LifeTempo != nil {
		current.LifeTempo = patch.LifeTempo
	}
	if patch.LifeNoise != nil {
		current.LifeNoise = patch.LifeNoise
	}
	return current
}

// UpdateMyState は自分の状態を部分更新する。
// 既存の状態があればnilでないフィールドだけをマージして上書きし、
// なければ新しい状態レコードを作成する。
func (s *Service) UpdateMyState(ctx context.Context, userID string, patch model.StateData) (*model.UserState, error) {
	if err := validate(&patch); err != nil {
		return nil, err
	}

	g, err := s.groups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGroupNotFoundError()
	}

	current, err := s.stateRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("現在状態の取得に失敗しました: %w", err)
	}

	next := &model.UserState{
		GroupID:   g.ID,
		UserID:    userID,
		UpdatedAt: s.now().UTC(),
	}
	if current != nil {
		next.ID = current.ID
		next.Data = merge(current.Data, patch)
	} else {
		next.ID = uuid.New().String()
		next.Data = merge(model.StateData{}, patch)
	}

	if err := s.stateRepo.Upsert(ctx, next); err != nil {
		return nil, fmt.Errorf("状態の保存に失敗しました: %w", err)
	}

	slog.Info("状態を更新しました",
		slog.String("user_id", userID),
		slog.String("group_id", g.ID),
	)

	return next, nil
}

// GetMyState は自分の現在状態を返す。未登録の場合はnilを返す。
func (s *Service) GetMyState(ctx context.Context, userID string) (*model.UserState, error) {
	st, err := s.stateRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("状態の取得に失敗しました: %w", err)
	}
	return st, nil
}

// GetPartnerState はパートナーの現在状態を返す。
// パートナー未参加または未登録の場合はnilを返す（エラーではない）。
func (s *Service) GetPartnerState(ctx context.Context, userID string) (*model.UserState, error) {
	partner, err := s.partners.GetPartner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, nil
	}
	return s.GetMyState(ctx, partner.ID)
}
