package read

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/futari/internal/metrics"
	"github.com/hitoshi/futari/internal/model"
	"github.com/hitoshi/futari/internal/repository"
)

// UpdateTracker はdomainごとの「パートナー起点の最終更新時刻」を収集する。
//
// 何が新着シグナルになるかはdomainごとに異なる:
//   - state:  パートナーの状態のupdated_at
//   - logs:   パートナーが書いた共有ログの最新created_at（非公開ログは対象外）
//   - rules:  グループ全体のルールの最新updated_at（どちらが書いても共有の決め事）
//   - future: パートナーが提案したアイテムの最新updated_at（サプライズ保護は対象外）
type UpdateTracker struct {
	stateRepo  repository.StateRepository
	logRepo    repository.LogRepository
	ruleRepo   repository.RuleRepository
	futureRepo repository.FutureRepository
}

// NewUpdateTracker はUpdateTrackerの新しいインスタンスを生成する。
func NewUpdateTracker(
	stateRepo repository.StateRepository,
	logRepo repository.LogRepository,
	ruleRepo repository.RuleRepository,
	futureRepo repository.FutureRepository,
) *UpdateTracker {
	return &UpdateTracker{
		stateRepo:  stateRepo,
		logRepo:    logRepo,
		ruleRepo:   ruleRepo,
		futureRepo: futureRepo,
	}
}

// Collect はパートナー起点の最終更新時刻をdomainごとに収集する。
// 4つの照会は独立なので並行実行する。一部が失敗しても全体は失敗させず、
// 失敗したdomainは「更新なし」として扱う（バッジが出ないだけで画面は成立する）。
func (u *UpdateTracker) Collect(ctx context.Context, groupID, partnerID string) DomainUpdates {
	var mu sync.Mutex
	updates := make(DomainUpdates, len(model.BadgeDomains))

	set := func(d model.Domain, ts *time.Time, err error) {
		if err != nil {
			slog.Warn("更新時刻の取得に失敗しました",
				slog.String("domain", string(d)),
				slog.String("group_id", groupID),
				slog.String("error", err.Error()),
			)
			return
		}
		mu.Lock()
		updates[d] = ts
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		state, err := u.stateRepo.FindByUserID(ctx, partnerID)
		if err != nil {
			set(model.DomainState, nil, err)
			return
		}
		if state == nil {
			set(model.DomainState, nil, nil)
			return
		}
		ts := state.UpdatedAt
		set(model.DomainState, &ts, nil)
	}()

	go func() {
		defer wg.Done()
		ts, err := u.logRepo.LatestSharedAt(ctx, groupID, partnerID)
		set(model.DomainLogs, ts, err)
	}()

	go func() {
		defer wg.Done()
		ts, err := u.ruleRepo.LatestUpdatedAt(ctx, groupID)
		set(model.DomainRules, ts, err)
	}()

	go func() {
		defer wg.Done()
		ts, err := u.futureRepo.LatestUpdatedAtByUser(ctx, groupID, partnerID)
		set(model.DomainFuture, ts, err)
	}()

	wg.Wait()
	return updates
}

// BadgeService は新着バッジ計算のサービス層。
// パートナーの更新状況と自分の閲覧記録を突き合わせてバッジを返す。
type BadgeService struct {
	tracker   *Tracker
	updates   *UpdateTracker
	groups    GroupResolver
	partners  PartnerResolver
	collector metrics.MetricsCollector
}

// NewBadgeService はBadgeServiceの新しいインスタンスを生成する。
func NewBadgeService(
	tracker *Tracker,
	updates *UpdateTracker,
	groups GroupResolver,
	partners PartnerResolver,
	collector metrics.MetricsCollector,
) *BadgeService {
	return &BadgeService{
		tracker:   tracker,
		updates:   updates,
		groups:    groups,
		partners:  partners,
		collector: collector,
	}
}

// GetBadges はユーザーの新着バッジを計算して返す。
// パートナー未参加の場合は全てfalse（新着の発生源が存在しない）。
func (s *BadgeService) GetBadges(ctx context.Context, userID string) (NewBadges, error) {
	if s.collector != nil {
		s.collector.RecordBadgeComputation()
	}

	partner, err := s.partners.GetPartner(ctx, userID)
	if err != nil {
		return NewBadges{}, err
	}
	if partner == nil {
		return NewBadges{}, nil
	}

	g, err := s.groups.FindByUserID(ctx, userID)
	if err != nil {
		return NewBadges{}, err
	}
	if g == nil {
		return NewBadges{}, model.NewGroupNotFoundError()
	}

	myReads, err := s.tracker.GetMyReads(ctx, userID)
	if err != nil {
		return NewBadges{}, err
	}

	updates := s.updates.Collect(ctx, g.ID, partner.ID)
	return ComputeNewBadges(updates, myReads), nil
}
