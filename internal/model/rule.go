// Package model はドメインモデルを定義する。
package model

import "time"

// RuleCategory はルールのカテゴリを表す。
type RuleCategory string

const (
	RuleCategoryCohabitationCheck RuleCategory = "cohabitation_check"
	RuleCategoryMoney             RuleCategory = "money"
	RuleCategoryChore             RuleCategory = "chore"
	RuleCategoryGeneral           RuleCategory = "general"
)

// Valid はRuleCategoryが定義済みの値かどうかを返す。
func (c RuleCategory) Valid() bool {
	switch c {
	case RuleCategoryCohabitationCheck, RuleCategoryMoney, RuleCategoryChore, RuleCategoryGeneral:
		return true
	default:
		return false
	}
}

// Rule は二人の間の決め事・ルールを表す。グループ単位で共有される。
type Rule struct {
	ID        string
	GroupID   string
	Category  RuleCategory
	Title     string
	Content   string // サニタイズ済み
	Memo      string
	CreatedBy string // 作成者のユーザーID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChecklistStatus は同棲チェック項目の進行状態を表す。
type ChecklistStatus string

const (
	// ChecklistStatusPending は未着手。
	ChecklistStatusPending ChecklistStatus = "pending"
	// ChecklistStatusDiscussing は話し合い中。
	ChecklistStatusDiscussing ChecklistStatus = "discussing"
	// ChecklistStatusAgreed は合意済み。
	ChecklistStatusAgreed ChecklistStatus = "agreed"
)

// Valid はChecklistStatusが定義済みの値かどうかを返す。
func (s ChecklistStatus) Valid() bool {
	switch s {
	case ChecklistStatusPending, ChecklistStatusDiscussing, ChecklistStatusAgreed:
		return true
	default:
		return false
	}
}

// ChecklistItem は同棲前後のすり合わせチェック項目を表す。
type ChecklistItem struct {
	ID         string
	GroupID    string
	Category   string
	Question   string
	Status     ChecklistStatus
	Conclusion string
	Memo       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
