// Package model はドメインモデルを定義する。
package model

import "fmt"

// Domain は既読・新着追跡の対象となるコンテンツ領域を表す。
// 閉じた列挙として扱い、追加時は各switch文の網羅性を確認すること。
type Domain string

const (
	// DomainDashboard はダッシュボード画面。最終閲覧の表示のみで、新着バッジの対象外。
	DomainDashboard Domain = "dashboard"
	// DomainState は状態（機嫌・会話・生活状況）画面。
	DomainState Domain = "state"
	// DomainLogs はログ（日々の記録）画面。
	DomainLogs Domain = "logs"
	// DomainRules はルール・決め事画面。
	DomainRules Domain = "rules"
	// DomainFuture は未来・提案画面。
	DomainFuture Domain = "future"
)

// Domains は全domainの一覧（表示順）。
var Domains = []Domain{
	DomainDashboard,
	DomainState,
	DomainLogs,
	DomainRules,
	DomainFuture,
}

// BadgeDomains は新着バッジ計算の対象domain。
// dashboardは閲覧記録のみで、バッジは持たない。
var BadgeDomains = []Domain{
	DomainState,
	DomainLogs,
	DomainRules,
	DomainFuture,
}

// ParseDomain は文字列をDomainに変換する。未知の値はエラーを返す。
func ParseDomain(s string) (Domain, error) {
	switch Domain(s) {
	case DomainDashboard, DomainState, DomainLogs, DomainRules, DomainFuture:
		return Domain(s), nil
	default:
		return "", fmt.Errorf("unknown domain: %q", s)
	}
}

// Valid はDomainが定義済みの値かどうかを返す。
func (d Domain) Valid() bool {
	_, err := ParseDomain(string(d))
	return err == nil
}
