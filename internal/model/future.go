// Package model はドメインモデルを定義する。
package model

import "time"

// FutureItemType は未来アイテムの種類を表す。
type FutureItemType string

const (
	// FutureItemTypePlace は行きたい場所。
	FutureItemTypePlace FutureItemType = "place"
	// FutureItemTypeWish はほしい物。
	FutureItemTypeWish FutureItemType = "wish"
	// FutureItemTypeAnniversary は記念日。
	FutureItemTypeAnniversary FutureItemType = "anniversary"
)

// Valid はFutureItemTypeが定義済みの値かどうかを返す。
func (t FutureItemType) Valid() bool {
	switch t {
	case FutureItemTypePlace, FutureItemTypeWish, FutureItemTypeAnniversary:
		return true
	default:
		return false
	}
}

// Temperature は提案の温度感（優先度）を表す。
type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureWarm Temperature = "warm"
	TemperatureCool Temperature = "cool"
)

// Valid はTemperatureが定義済みの値かどうかを返す。
func (t Temperature) Valid() bool {
	switch t {
	case TemperatureHot, TemperatureWarm, TemperatureCool:
		return true
	default:
		return false
	}
}

// AnniversaryWeight は記念日の重さを表す。
type AnniversaryWeight string

const (
	AnniversaryWeightLight  AnniversaryWeight = "light"
	AnniversaryWeightMedium AnniversaryWeight = "medium"
	AnniversaryWeightHeavy  AnniversaryWeight = "heavy"
)

// Valid はAnniversaryWeightが定義済みの値かどうかを返す。
func (w AnniversaryWeight) Valid() bool {
	switch w {
	case AnniversaryWeightLight, AnniversaryWeightMedium, AnniversaryWeightHeavy:
		return true
	default:
		return false
	}
}

// FutureItem は将来の予定・希望（行きたい場所、ほしい物、記念日）を表す。
// surprise_protectedが真のアイテムは提案者本人にしか見えない。
type FutureItem struct {
	ID      string
	GroupID string
	UserID  string // 提案者

	ItemType FutureItemType
	Title    string
	Detail   string

	Temperature       Temperature
	SurpriseProtected bool

	// 記念日用
	AnniversaryDate   *time.Time
	AnniversaryWeight AnniversaryWeight
	PreDiscussion     *bool

	// ほしい物用
	Owned  *bool
	Reason string

	CreatedAt time.Time
	UpdatedAt time.Time
}
