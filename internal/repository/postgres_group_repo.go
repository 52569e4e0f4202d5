package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/futari/internal/model"
)

// pairingLockKey はペアリング処理を直列化するpg_advisory_xact_lockのキー。
// グループ探索から所属確定までを1トランザクションで排他実行するために使う。
const pairingLockKey = 20240601

// PostgresGroupRepo はPostgreSQLを使用したグループリポジトリ。
type PostgresGroupRepo struct {
	db *sql.DB
}

// NewPostgresGroupRepo はPostgresGroupRepoを生成する。
func NewPostgresGroupRepo(db *sql.DB) *PostgresGroupRepo {
	return &PostgresGroupRepo{db: db}
}

// FindByID は指定IDのグループを取得する。見つからない場合はnilを返す。
func (r *PostgresGroupRepo) FindByID(ctx context.Context, id string) (*model.Group, error) {
	group := &model.Group{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM groups WHERE id = $1`,
		id,
	).Scan(&group.ID, &group.Name, &group.CreatedAt, &group.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	return group, nil
}

// FindByUserID はユーザーが所属するグループを取得する。未所属の場合はnilを返す。
func (r *PostgresGroupRepo) FindByUserID(ctx context.Context, userID string) (*model.Group, error) {
	group := &model.Group{}
	err := r.db.QueryRowContext(ctx,
		`SELECT g.id, g.name, g.created_at, g.updated_at
		 FROM groups g
		 JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.user_id = $1`,
		userID,
	).Scan(&group.ID, &group.Name, &group.CreatedAt, &group.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group by user: %w", err)
	}

	return group, nil
}

// ListMembers はグループの所属レコードを参加順（id昇順）で返す。
// id昇順が「誰が先に待っていたか」の正であり、グループ名の並び順もこれに従う。
func (r *PostgresGroupRepo) ListMembers(ctx context.Context, groupID string) ([]model.GroupMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, group_id, user_id, joined_at
		 FROM group_members
		 WHERE group_id = $1
		 ORDER BY id ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var members []model.GroupMember
	for rows.Next() {
		var m model.GroupMember
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return members, nil
}

// EnsureMembership はユーザーの所属を冪等に確定する単一トランザクション操作。
//
// アプリケーション層での「全グループを走査して空きを探す」読み書き分離は
// 競合時に3人グループや孤立した1人グループを生むため、探索から確定までを
// ここで1トランザクションに閉じ、pg_advisory_xact_lockで直列化する。
//
// 手順:
//  1. 所属済みならそのgroup_idを返す（書き込みなし）。
//  2. メンバーが1人だけの最も古いグループに参加し、表示名を「A と B」に更新する。
//  3. 待機グループがなければプレースホルダー名で新規作成する。
func (r *PostgresGroupRepo) EnsureMembership(ctx context.Context, userID, userName string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin pairing transaction: %w", err)
	}
	defer tx.Rollback()

	// ペアリングを直列化（トランザクション終了時に自動解放）
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, pairingLockKey); err != nil {
		return "", fmt.Errorf("failed to acquire pairing lock: %w", err)
	}

	// 1. 既存の所属を確認（冪等性）
	var groupID string
	err = tx.QueryRowContext(ctx,
		`SELECT group_id FROM group_members WHERE user_id = $1`,
		userID,
	).Scan(&groupID)
	if err == nil {
		return groupID, tx.Commit()
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to check existing membership: %w", err)
	}

	now := time.Now().UTC()

	// 2. 最も古い待機グループ（メンバー1人）を探す
	var waitingGroupID, waitingUserName string
	err = tx.QueryRowContext(ctx,
		`SELECT g.id, u.name
		 FROM groups g
		 JOIN group_members gm ON gm.group_id = g.id
		 JOIN users u ON u.id = gm.user_id
		 WHERE (SELECT count(*) FROM group_members gm2 WHERE gm2.group_id = g.id) = 1
		 ORDER BY g.created_at ASC, g.id ASC
		 LIMIT 1`,
	).Scan(&waitingGroupID, &waitingUserName)

	switch {
	case err == nil:
		// 待機グループに参加し、2人分の名前で表示名を確定する
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, user_id, joined_at) VALUES ($1, $2, $3)`,
			waitingGroupID, userID, now,
		); err != nil {
			return "", fmt.Errorf("failed to join waiting group: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE groups SET name = $2, updated_at = $3 WHERE id = $1`,
			waitingGroupID, model.GenerateGroupName(waitingUserName, userName), now,
		); err != nil {
			return "", fmt.Errorf("failed to update group name: %w", err)
		}
		groupID = waitingGroupID

	case err == sql.ErrNoRows:
		// 3. 待機グループがないので新規作成
		groupID = uuid.New().String()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO groups (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
			groupID, model.WaitingGroupName(userName), now, now,
		); err != nil {
			return "", fmt.Errorf("failed to create group: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, user_id, joined_at) VALUES ($1, $2, $3)`,
			groupID, userID, now,
		); err != nil {
			return "", fmt.Errorf("failed to insert membership: %w", err)
		}

	default:
		return "", fmt.Errorf("failed to find waiting group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit pairing transaction: %w", err)
	}

	return groupID, nil
}

// UpdateName はグループの表示名を更新する。
func (r *PostgresGroupRepo) UpdateName(ctx context.Context, groupID, name string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE groups SET name = $2, updated_at = now() WHERE id = $1`,
		groupID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to update group name: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("group not found: %s", groupID)
	}
	return nil
}

// compile-time interface check
var _ GroupRepository = (*PostgresGroupRepo)(nil)
