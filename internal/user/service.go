// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/futari/internal/model"
	"github.com/hitoshi/futari/internal/repository"
	"github.com/hitoshi/futari/internal/security"
)

// GroupRenamer は表示名変更後のグループ名再生成インターフェース。
type GroupRenamer interface {
	// FindByUserID はユーザーの所属グループを取得する。未所属の場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Group, error)
	// RefreshGroupName はメンバーの現在の表示名からグループ名を再生成する。
	RefreshGroupName(ctx context.Context, groupID string) error
}

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo  repository.UserRepository
	groups    GroupRenamer
	sanitizer security.ContentSanitizerService
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	groups GroupRenamer,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		userRepo:  userRepo,
		groups:    groups,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

const maxNameLength = 50

// GetProfile は指定IDのユーザーを取得する。
func (s *Service) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// UpdateName はユーザーの表示名を変更し、所属グループの表示名も再生成する。
// グループ名は「{メンバーA} と {メンバーB}」形式でメンバー名から導出されるため、
// 表示名の変更は必ずグループ名の再生成を伴う。
func (s *Service) UpdateName(ctx context.Context, userID, name string) (*model.User, error) {
	name = s.sanitizer.Sanitize(name)
	if name == "" {
		return nil, model.NewValidationError("name", "表示名を入力してください")
	}
	if len([]rune(name)) > maxNameLength {
		return nil, model.NewValidationError("name", fmt.Sprintf("%d文字以内で入力してください", maxNameLength))
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	if err := s.userRepo.UpdateName(ctx, userID, name); err != nil {
		return nil, fmt.Errorf("表示名の更新に失敗しました: %w", err)
	}
	user.Name = name
	user.UpdatedAt = s.now().UTC()

	g, err := s.groups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g != nil {
		if err := s.groups.RefreshGroupName(ctx, g.ID); err != nil {
			return nil, fmt.Errorf("グループ名の再生成に失敗しました: %w", err)
		}
	}

	slog.Info("表示名を変更しました",
		slog.String("user_id", userID),
	)

	return user, nil
}
