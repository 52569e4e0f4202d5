package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/futari/internal/model"
)

// PostgresStateRepo はPostgreSQLを使用したユーザー状態リポジトリ。
// 状態項目はstate_json列（JSONB）にまとめて保存する。
type PostgresStateRepo struct {
	db *sql.DB
}

// NewPostgresStateRepo はPostgresStateRepoを生成する。
func NewPostgresStateRepo(db *sql.DB) *PostgresStateRepo {
	return &PostgresStateRepo{db: db}
}

// FindByUserID は指定ユーザーの現在状態を取得する。見つからない場合はnilを返す。
func (r *PostgresStateRepo) FindByUserID(ctx context.Context, userID string) (*model.UserState, error) {
	state := &model.UserState{}
	var raw []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT id, group_id, user_id, state_json, updated_at
		 FROM state_current WHERE user_id = $1`,
		userID,
	).Scan(&state.ID, &state.GroupID, &state.UserID, &raw, &state.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("状態の取得に失敗しました: %w", err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &state.Data); err != nil {
			return nil, fmt.Errorf("状態JSONの解析に失敗しました: %w", err)
		}
	}

	return state, nil
}

// Upsert は状態を冪等にUPSERTする。
// UNIQUE(user_id)制約を利用したINSERT ON CONFLICTで実装する。
func (r *PostgresStateRepo) Upsert(ctx context.Context, state *model.UserState) error {
	raw, err := json.Marshal(state.Data)
	if err != nil {
		return fmt.Errorf("状態JSONのシリアライズに失敗しました: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO state_current (id, group_id, user_id, state_json, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
		     state_json = EXCLUDED.state_json,
		     updated_at = EXCLUDED.updated_at`,
		state.ID, state.GroupID, state.UserID, raw, state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("状態の保存に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ StateRepository = (*PostgresStateRepo)(nil)
