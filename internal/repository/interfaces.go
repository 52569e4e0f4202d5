// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/futari/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdateName は表示名を更新する。対象が存在しない場合はエラーを返す。
	UpdateName(ctx context.Context, id, name string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// GroupRepository はグループと所属関係の永続化インターフェース。
type GroupRepository interface {
	// FindByID は指定IDのグループを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Group, error)

	// FindByUserID はユーザーが所属するグループを取得する。未所属の場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Group, error)

	// ListMembers はグループの所属レコードを参加順（id昇順）で返す。
	ListMembers(ctx context.Context, groupID string) ([]model.GroupMember, error)

	// EnsureMembership はユーザーの所属を冪等に確定する単一トランザクション操作。
	// 所属済みならそのグループIDを返す。未所属なら最も古い待機グループ
	// （メンバー1人）に参加させ、待機グループがなければ新規作成する。
	// 参加・作成時はグループ表示名も同一トランザクション内で更新する。
	// 同時実行は排他ロックで直列化され、2人定員の不変条件を守る。
	EnsureMembership(ctx context.Context, userID, userName string) (string, error)

	// UpdateName はグループの表示名を更新する。
	UpdateName(ctx context.Context, groupID, name string) error
}

// ReadRepository はユーザーごと・domainごとの最終閲覧時刻の永続化インターフェース。
type ReadRepository interface {
	// Upsert は(user_id, domain)の閲覧時刻を冪等にUPSERTする。
	Upsert(ctx context.Context, userID string, domain model.Domain, seenAt time.Time) error

	// ListByUserID は指定ユーザーの全閲覧レコードを返す。
	ListByUserID(ctx context.Context, userID string) ([]model.Read, error)
}

// StateRepository はユーザー状態（state_current）の永続化インターフェース。
type StateRepository interface {
	// FindByUserID は指定ユーザーの現在状態を取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.UserState, error)

	// Upsert は状態を冪等にUPSERTする（UNIQUE(user_id)）。
	Upsert(ctx context.Context, state *model.UserState) error
}

// LogRepository はログデータの永続化インターフェース。
type LogRepository interface {
	// Create はログを作成する。
	Create(ctx context.Context, log *model.Log) error

	// FindByID は指定IDのログを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Log, error)

	// ListByGroup はグループのログを新しい順に返す。
	// 閲覧者以外が書いた非公開ログは結果に含めない。
	ListByGroup(ctx context.Context, groupID, viewerID string, limit int) ([]model.Log, error)

	// UpdateVisibility はログの公開範囲を更新する。
	UpdateVisibility(ctx context.Context, id string, visibility model.LogVisibility) error

	// LatestSharedAt は指定ユーザーが書いた共有ログの最新created_atを返す。
	// 共有ログが1件もない場合はnilを返す。非公開ログは対象外。
	LatestSharedAt(ctx context.Context, groupID, userID string) (*time.Time, error)
}

// RuleRepository はルールデータの永続化インターフェース。
type RuleRepository interface {
	// Create はルールを作成する。
	Create(ctx context.Context, rule *model.Rule) error

	// FindByID は指定IDのルールを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Rule, error)

	// ListByGroup はグループのルールを新しい順に返す。
	ListByGroup(ctx context.Context, groupID string) ([]model.Rule, error)

	// Update はルールの内容を更新する。
	Update(ctx context.Context, rule *model.Rule) error

	// LatestUpdatedAt はグループ内ルールの最新updated_atを返す。
	// ルールが1件もない場合はnilを返す。
	LatestUpdatedAt(ctx context.Context, groupID string) (*time.Time, error)
}

// ChecklistRepository は同棲チェック項目の永続化インターフェース。
type ChecklistRepository interface {
	// FindByID は指定IDのチェック項目を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.ChecklistItem, error)

	// ListByGroup はグループのチェック項目をカテゴリ順に返す。
	ListByGroup(ctx context.Context, groupID string) ([]model.ChecklistItem, error)

	// Update はチェック項目の状態・結論・備考を更新する。
	Update(ctx context.Context, item *model.ChecklistItem) error
}

// FutureRepository は未来アイテムの永続化インターフェース。
type FutureRepository interface {
	// Create は未来アイテムを作成する。
	Create(ctx context.Context, item *model.FutureItem) error

	// FindByID は指定IDのアイテムを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.FutureItem, error)

	// ListByGroup はグループのアイテムを新しい順に返す。
	// 閲覧者以外が提案したサプライズ保護アイテムは結果に含めない。
	ListByGroup(ctx context.Context, groupID, viewerID string) ([]model.FutureItem, error)

	// Update はアイテムの内容を更新する。
	Update(ctx context.Context, item *model.FutureItem) error

	// Delete は指定IDのアイテムを削除する。
	Delete(ctx context.Context, id string) error

	// LatestUpdatedAtByUser は指定ユーザーが提案したアイテムの最新updated_atを返す。
	// アイテムが1件もない場合はnilを返す。
	LatestUpdatedAtByUser(ctx context.Context, groupID, userID string) (*time.Time, error)
}
