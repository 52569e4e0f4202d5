// Package model はドメインモデルを定義する。
package model

import "time"

// LogVisibility はログの公開範囲を表す。
type LogVisibility string

const (
	// LogVisibilityPrivate は本人のみ閲覧可能。パートナーへの更新シグナルにもならない。
	LogVisibilityPrivate LogVisibility = "private"
	// LogVisibilityShared はパートナーにも公開される。
	LogVisibilityShared LogVisibility = "shared"
)

// Valid はLogVisibilityが定義済みの値かどうかを返す。
func (v LogVisibility) Valid() bool {
	return v == LogVisibilityPrivate || v == LogVisibilityShared
}

// LogType はログの種類を表す。
type LogType string

const (
	LogTypePrivateMemo  LogType = "private_memo"
	LogTypeSharedLog    LogType = "shared_log"
	LogTypeGratitude    LogType = "gratitude"
	LogTypeApology      LogType = "apology"
	LogTypeChoreDone    LogType = "chore_done"
	LogTypeSatisfaction LogType = "satisfaction"
)

// Valid はLogTypeが定義済みの値かどうかを返す。
func (t LogType) Valid() bool {
	switch t {
	case LogTypePrivateMemo, LogTypeSharedLog, LogTypeGratitude,
		LogTypeApology, LogTypeChoreDone, LogTypeSatisfaction:
		return true
	default:
		return false
	}
}

// Log は日々の記録（共有ログ・非公開メモ・感謝・家事完了など）を表す。
type Log struct {
	ID         string
	GroupID    string
	UserID     string
	LogType    LogType
	Content    string // サニタイズ済み
	Visibility LogVisibility

	// 消えるメモ用
	ExpiresAt *time.Time

	// 家事ログ用
	ChoreType string

	// 満足度ログ用（1〜5）
	SatisfactionScore *int

	CreatedAt time.Time
	UpdatedAt time.Time
}
