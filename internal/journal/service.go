// Package journal は日々のログ（共有ログ・非公開メモ・感謝・家事完了など）の
// 管理ロジックを提供する。
package journal

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

// CreateLogInput はログ作成の入力。
type CreateLogInput struct {
	LogType           string
	Content           string
	Visibility        string
	ExpiresAt         *time.Time
	ChoreType         string
	SatisfactionScore *int
}

// Service はログ管理のサービス層。
type Service struct {
	logRepo   repository.LogRepository
	groups    GroupResolver
	sanitizer security.ContentSanitizerService
	listLimit int
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// listLimitは一覧取得の最大件数。
func NewService(
	logRepo repository.LogRepository,
	groups GroupResolver,
	sanitizer security.ContentSanitizerService,
	listLimit int,
) *Service {
	return &Service{
		logRepo:   logRepo,
		groups:    groups,
		sanitizer: sanitizer,
		listLimit: listLimit,
		now:       time.Now,
	}
}

const maxContentLength = 2000

// CreateLog はログを作成する。本文はサニタイズしてから保存する。
// private_memoは常に非公開として保存する（入力のvisibilityより優先）。
func (s *Service) CreateLog(ctx context.Context, userID string, input CreateLogInput) (*model.Log, error) {
	logType := model.LogType(input.LogType)
	if !logType.Valid() {
		return nil, model.NewValidationError("log_type", fmt.Sprintf("無効な値です: %s", input.LogType))
	}

	visibility := model.LogVisibility(input.Visibility)
	if input.Visibility == "" {
		visibility = model.LogVisibilityShared
	}
	if !visibility.Valid() {
		return nil, model.NewValidationError("visibility", fmt.Sprintf("無効な値です: %s", input.Visibility))
	}
	if logType == model.LogTypePrivateMemo {
		visibility = model.LogVisibilityPrivate
	}

	content := s.sanitizer.Sanitize(input.Content)
	if content == "" {
		return nil, model.NewValidationError("content", "本文を入力してください")
	}
	if len([]rune(content)) > maxContentLength {
		return nil, model.NewValidationError("content", fmt.Sprintf("%d文字以内で入力してください", maxContentLength))
	}

	if input.SatisfactionScore != nil {
		if logType != model.LogTypeSatisfaction {
			return nil, model.NewValidationError("satisfaction_score", "満足度ログ以外では指定できません")
		}
		if *input.SatisfactionScore < 1 || *input.SatisfactionScore > 5 {
			return nil, model.NewValidationError("satisfaction_score", "1〜5で指定してください")
		}
	}
	if input.ChoreType != "" && logType != model.LogTypeChoreDone {
		return nil, model.NewValidationError("chore_type", "家事ログ以外では指定できません")
	}

	g, err := s.groups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGroupNotFoundError()
	}

	now := s.now().UTC()
	log := &model.Log{
		ID:                uuid.New().String(),
		GroupID:           g.ID,
		UserID:            userID,
		LogType:           logType,
		Content:           content,
		Visibility:        visibility,
		ExpiresAt:         input.ExpiresAt,
		ChoreType:         input.ChoreType,
		SatisfactionScore: input.SatisfactionScore,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.logRepo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("ログの作成に失敗しました: %w", err)
	}

	slog.Info("ログを作成しました",
		slog.String("log_id", log.ID),
		slog.String("group_id", g.ID),
		slog.String("log_type", string(logType)),
		slog.String("visibility", string(visibility)),
	)

	return log, nil
}

// ListLogs はグループのログを新しい順に返す。
// 非公開ログは書いた本人の一覧にしか現れない（フィルタはリポジトリが保証する）。
func (s *Service) ListLogs(ctx context.Context, userID string) ([]model.Log, error) {
	g, err := s.groups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGroupNotFoundError()
	}

	logs, err := s.logRepo.ListByGroup(ctx, g.ID, userID, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("ログ一覧の取得に失敗しました: %w", err)
	}
	return logs, nil
}

// UpdateVisibility はログの公開範囲を変更する。書いた本人だけが変更できる。
// 非公開から共有への変更は「あとから伝える」ための操作で、共有した時点から
// パートナーへの新着シグナルの対象になる。
func (s *Service) UpdateVisibility(ctx context.Context, userID, logID string, visibility string) (*model.Log, error) {
	v := model.LogVisibility(visibility)
	if !v.Valid() {
		return nil, model.NewValidationError("visibility", fmt.Sprintf("無効な値です: %s", visibility))
	}

	log, err := s.logRepo.FindByID(ctx, logID)
	if err != nil {
		return nil, fmt.Errorf("ログの取得に失敗しました: %w", err)
	}
	if log == nil {
		return nil, model.NewLogNotFoundError(logID)
	}
	if log.UserID != userID {
		// 他人のログは存在ごと秘匿する
		return nil, model.NewLogNotFoundError(logID)
	}

	if err := s.logRepo.UpdateVisibility(ctx, logID, v); err != nil {
		return nil, fmt.Errorf("ログ公開範囲の更新に失敗しました: %w", err)
	}

	log.Visibility = v
	return log, nil
}
