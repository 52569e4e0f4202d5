// Package model はドメインモデルを定義する。
package model

import "time"

// Read はユーザーごと・domainごとの最終閲覧時刻を表す。
// (user_id, domain) につき最大1行で、閲覧のたびにlast_seen_atを上書きする。
// 削除されることはない。
type Read struct {
	ID         string
	UserID     string
	Domain     Domain
	LastSeenAt time.Time
}
