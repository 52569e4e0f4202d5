package read

import (
	"time"

	"github.com/hitoshi/futari/internal/model"
)

// NewBadges は各domainの新着バッジの有無を表す。
// dashboardは他domainへの入り口なのでバッジの対象外。
type NewBadges struct {
	State  bool `json:"state"`
	Logs   bool `json:"logs"`
	Rules  bool `json:"rules"`
	Future bool `json:"future"`
}

// DomainUpdates はdomainごとのパートナー起点の最終更新時刻。
// 更新が存在しないdomainはnilを持つか、マップに含まれない。
type DomainUpdates map[model.Domain]*time.Time

// ComputeNewBadges は更新時刻と自分の閲覧時刻から新着バッジを計算する純粋関数。
//
// 判定規則（domainごとに独立）:
//   - パートナー起点の更新が存在しない → false（見るべきものがない）
//   - 自分が一度も閲覧していない → true
//   - 更新時刻が閲覧時刻より厳密に新しい場合のみ → true
//     （同時刻はfalse。閲覧した瞬間の記録と同タイムスタンプの更新を
//     新着扱いにすると、バッジが永久に消えなくなる）
func ComputeNewBadges(updates DomainUpdates, myReads map[model.Domain]time.Time) NewBadges {
	isNew := func(d model.Domain) bool {
		updatedAt, ok := updates[d]
		if !ok || updatedAt == nil {
			return false
		}
		lastSeen, seen := myReads[d]
		if !seen {
			return true
		}
		return updatedAt.After(lastSeen)
	}

	return NewBadges{
		State:  isNew(model.DomainState),
		Logs:   isNew(model.DomainLogs),
		Rules:  isNew(model.DomainRules),
		Future: isNew(model.DomainFuture),
	}
}
