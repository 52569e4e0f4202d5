// Package read は画面閲覧の記録と新着バッジの計算を提供する。
package read

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/futari/internal/metrics"
	"github.com/hitoshi/futari/internal/model"
	"github.com/hitoshi/futari/internal/repository"
)

// PartnerResolver はパートナーの解決インターフェース。
// パートナー未参加の場合は(nil, nil)を返す。
type PartnerResolver interface {
	GetPartner(ctx context.Context, userID string) (*model.User, error)
}

// GroupResolver はユーザーの所属グループの解決インターフェース。
type GroupResolver interface {
	FindByUserID(ctx context.Context, userID string) (*model.Group, error)
}

// Tracker は閲覧記録のサービス層。
// 閲覧記録は本来の操作（画面表示）の付随処理なので、保存失敗で
// 画面表示を壊さないことを最優先にする。
type Tracker struct {
	readRepo  repository.ReadRepository
	partners  PartnerResolver
	collector metrics.MetricsCollector
	now       func() time.Time
}

// NewTracker はTrackerの新しいインスタンスを生成する。
func NewTracker(
	readRepo repository.ReadRepository,
	partners PartnerResolver,
	collector metrics.MetricsCollector,
) *Tracker {
	return &Tracker{
		readRepo:  readRepo,
		partners:  partners,
		collector: collector,
		now:       time.Now,
	}
}

// RecordView はユーザーのdomain閲覧を現在時刻で記録する。
// 保存に失敗しても呼び出し元にエラーを返さない（ログとメトリクスにのみ残す）。
// 不正なdomainだけはバリデーションエラーとして返す。
func (t *Tracker) RecordView(ctx context.Context, userID string, domain string) error {
	d, err := model.ParseDomain(domain)
	if err != nil {
		return model.NewInvalidDomainError(domain)
	}

	if err := t.readRepo.Upsert(ctx, userID, d, t.now().UTC()); err != nil {
		slog.Warn("閲覧記録の保存に失敗しました",
			slog.String("user_id", userID),
			slog.String("domain", string(d)),
			slog.String("error", err.Error()),
		)
		if t.collector != nil {
			t.collector.RecordViewRecordFailure(string(d))
		}
		return nil
	}

	if t.collector != nil {
		t.collector.RecordViewRecorded(string(d))
	}
	return nil
}

// GetMyReads はユーザー自身の閲覧時刻をdomainごとに返す。
// 記録がないdomainはマップに含まれない。
func (t *Tracker) GetMyReads(ctx context.Context, userID string) (map[model.Domain]time.Time, error) {
	reads, err := t.readRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("閲覧記録の取得に失敗しました: %w", err)
	}

	result := make(map[model.Domain]time.Time, len(reads))
	for _, r := range reads {
		result[r.Domain] = r.LastSeenAt
	}
	return result, nil
}

// GetPartnerReads はパートナーの閲覧時刻をdomainごとに返す。
// パートナー未参加の場合は空マップを返す（エラーではない）。
func (t *Tracker) GetPartnerReads(ctx context.Context, userID string) (map[model.Domain]time.Time, error) {
	partner, err := t.partners.GetPartner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return map[model.Domain]time.Time{}, nil
	}

	return t.GetMyReads(ctx, partner.ID)
}
