// Package group はふたりグループのペアリングと名前管理のドメインロジックを提供する。
package group

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/futari/internal/metrics"
	"github.com/hitoshi/futari/internal/model"
	"github.com/hitoshi/futari/internal/repository"
)

// GroupInfo はグループの表示用情報。
// Waitingはパートナーがまだ参加していない状態を表す。
type GroupInfo struct {
	ID      string
	Name    string
	Waiting bool
	Members []model.User
}

// Service はグループ管理のサービス層。
// ペアリングの冪等性と2人定員の保証はリポジトリの単一トランザクション操作に委ね、
// ここではエラーの変換とメトリクス・ログの記録を行う。
type Service struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	collector metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		collector: collector,
	}
}

// EnsureGroupFor はユーザーの所属グループを冪等に確定し、グループIDを返す。
// 所属済みなら既存のグループIDを返し、書き込みは発生しない。
// 未所属なら待機中のグループに参加するか、新しい待機グループを作成する。
// 失敗した場合はGROUP_CREATION_FAILEDを返す。呼び出し元はこのエラーを
// 握りつぶしてはいけない（ペアリングなしではどの画面も成立しない）。
func (s *Service) EnsureGroupFor(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.recordPairing("failed")
		return "", fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		s.recordPairing("failed")
		return "", model.NewUserNotFoundError()
	}

	// 所属済みかどうかはメトリクスの結果ラベルにだけ使う
	existing, err := s.groupRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.recordPairing("failed")
		return "", fmt.Errorf("所属グループの確認に失敗しました: %w", err)
	}

	groupID, err := s.groupRepo.EnsureMembership(ctx, userID, user.Name)
	if err != nil {
		s.recordPairing("failed")
		slog.Error("ペアリングに失敗しました",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return "", model.NewGroupCreationFailedError()
	}

	switch {
	case existing != nil:
		s.recordPairing("existing")
	case existing == nil && groupID != "":
		// 参加したのか新規作成したのかはメンバー数で判別する
		members, err := s.groupRepo.ListMembers(ctx, groupID)
		if err == nil && len(members) >= 2 {
			s.recordPairing("joined")
		} else {
			s.recordPairing("created")
		}
		slog.Info("ペアリングが完了しました",
			slog.String("user_id", userID),
			slog.String("group_id", groupID),
		)
	}

	return groupID, nil
}

// FindByUserID はユーザーの所属グループを返す。未所属の場合は(nil, nil)を返す。
// 各ドメインサービスのGroupResolverとして使う。
func (s *Service) FindByUserID(ctx context.Context, userID string) (*model.Group, error) {
	return s.groupRepo.FindByUserID(ctx, userID)
}

// GetGroup はユーザーの所属グループの表示用情報を返す。
// 未所属の場合はGROUP_NOT_FOUNDを返す。
func (s *Service) GetGroup(ctx context.Context, userID string) (*GroupInfo, error) {
	g, err := s.groupRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGroupNotFoundError()
	}

	members, err := s.groupRepo.ListMembers(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("メンバー一覧の取得に失敗しました: %w", err)
	}

	info := &GroupInfo{
		ID:      g.ID,
		Name:    g.Name,
		Waiting: len(members) < 2,
	}
	for _, m := range members {
		u, err := s.userRepo.FindByID(ctx, m.UserID)
		if err != nil {
			return nil, fmt.Errorf("メンバーの取得に失敗しました: %w", err)
		}
		if u != nil {
			info.Members = append(info.Members, *u)
		}
	}

	return info, nil
}

// GetPartner はユーザーのパートナーを返す。
// パートナー未参加・グループ未所属のどちらも(nil, nil)を返す。
// エラーではなく「まだ相手がいない」という正常な状態として扱う。
func (s *Service) GetPartner(ctx context.Context, userID string) (*model.User, error) {
	g, err := s.groupRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, nil
	}

	members, err := s.groupRepo.ListMembers(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("メンバー一覧の取得に失敗しました: %w", err)
	}

	for _, m := range members {
		if m.UserID == userID {
			continue
		}
		partner, err := s.userRepo.FindByID(ctx, m.UserID)
		if err != nil {
			return nil, fmt.Errorf("パートナーの取得に失敗しました: %w", err)
		}
		return partner, nil
	}

	// メンバーが自分だけ（待機中）
	return nil, nil
}

// RefreshGroupName はメンバーの現在の表示名からグループ名を再生成する。
// 名前の並びは参加順（先に待っていた方が前）。
// メンバーが1人の場合はプレースホルダー名になる。
// ユーザーの表示名変更後に呼び出すことを想定している。
func (s *Service) RefreshGroupName(ctx context.Context, groupID string) error {
	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return fmt.Errorf("メンバー一覧の取得に失敗しました: %w", err)
	}
	if len(members) == 0 {
		return model.NewGroupNotFoundError()
	}

	names := make([]string, 0, len(members))
	for _, m := range members {
		u, err := s.userRepo.FindByID(ctx, m.UserID)
		if err != nil {
			return fmt.Errorf("メンバーの取得に失敗しました: %w", err)
		}
		if u == nil {
			return model.NewUserNotFoundError()
		}
		names = append(names, u.Name)
	}

	var name string
	if len(names) >= 2 {
		name = model.GenerateGroupName(names[0], names[1])
	} else {
		name = model.WaitingGroupName(names[0])
	}

	if err := s.groupRepo.UpdateName(ctx, groupID, name); err != nil {
		return fmt.Errorf("グループ名の更新に失敗しました: %w", err)
	}

	slog.Info("グループ名を更新しました",
		slog.String("group_id", groupID),
		slog.String("name", name),
	)

	return nil
}

func (s *Service) recordPairing(result string) {
	if s.collector != nil {
		s.collector.RecordPairing(result)
	}
}
