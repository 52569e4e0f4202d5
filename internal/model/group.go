// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"time"
)

// Group は2人組のグループを表す。
// メンバーは1人（パートナー待ち）または2人（ペア成立）のいずれかで、3人以上にはならない。
// 表示名はメンバーの名前から導出され、自由入力はできない。
type Group struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GroupMember はグループとユーザーの所属関係を表す。
// 1ユーザーにつき所属は最大1行（UNIQUE(user_id)）。
// IDは参加順に採番され、グループ名の並び順の根拠となる。
type GroupMember struct {
	ID       int64
	GroupID  string
	UserID   string
	JoinedAt time.Time
}

// GenerateGroupName はペア成立後のグループ表示名を生成する。
// 並び順は参加順（先に待っていた側が前）で、ソートはしない。
func GenerateGroupName(firstName, secondName string) string {
	return fmt.Sprintf("%s と %s", firstName, secondName)
}

// WaitingGroupName はパートナー待ちグループのプレースホルダー表示名を生成する。
func WaitingGroupName(memberName string) string {
	return fmt.Sprintf("%s (パートナー待ち)", memberName)
}
