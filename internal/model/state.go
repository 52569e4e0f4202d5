// Package model はドメインモデルを定義する。
package model

import "time"

// UserState はユーザーの現在の状態（機嫌・会話・距離感・生活状況）を表す。
// ユーザーごとに1行のみ（UNIQUE(user_id)）で、更新のたびに上書きされる。
// 状態項目はJSONBのstate_json列にまとめて保存する。
type UserState struct {
	ID        string
	GroupID   string
	UserID    string
	Data      StateData
	UpdatedAt time.Time
}

// StateData は状態項目の集合。すべて任意項目で、nilは「未設定・変更なし」を表す。
// 部分更新では既存値にnilでないフィールドのみを上書きする。
type StateData struct {
	// 機嫌関連
	Mood           *int     `json:"mood,omitempty"` // 1〜5
	MoodReasonTags []string `json:"mood_reason_tags,omitempty"`
	Note           *string  `json:"note,omitempty"`

	// 会話関連
	TalkState *string `json:"talk_state,omitempty"` // ok / later / no
	TalkDepth *string `json:"talk_depth,omitempty"` // light / normal / deep
	TalkStyle *string `json:"talk_style,omitempty"` // casual / serious / gentle

	// 距離感・関係性
	Distance          *string `json:"distance,omitempty"`           // close / normal / need_space
	ConflictTolerance *string `json:"conflict_tolerance,omitempty"` // high / medium / low

	// 生活状況
	LifeStatus *string `json:"life_status,omitempty"` // home / work / out / sleeping
	QuietMode  *bool   `json:"quiet_mode,omitempty"`
	SoloUntil  *string `json:"solo_until,omitempty"` // ISO8601
	FreeTime   *string `json:"free_time,omitempty"`  // none / little / some / plenty
	LifeTempo  *string `json:"life_tempo,omitempty"` // slow / normal / fast
	LifeNoise  *string `json:"life_noise,omitempty"`
}
