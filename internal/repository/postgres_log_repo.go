package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/futari/internal/model"
)

// PostgresLogRepo はPostgreSQLを使用したログリポジトリ。
type PostgresLogRepo struct {
	db *sql.DB
}

// NewPostgresLogRepo はPostgresLogRepoを生成する。
func NewPostgresLogRepo(db *sql.DB) *PostgresLogRepo {
	return &PostgresLogRepo{db: db}
}

// Create はログを作成する。
func (r *PostgresLogRepo) Create(ctx context.Context, log *model.Log) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO logs (id, group_id, user_id, log_type, content, visibility,
		                   expires_at, chore_type, satisfaction_score, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		log.ID, log.GroupID, log.UserID, string(log.LogType), log.Content, string(log.Visibility),
		log.ExpiresAt, nullIfEmpty(log.ChoreType), log.SatisfactionScore, log.CreatedAt, log.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ログの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDのログを取得する。見つからない場合はnilを返す。
func (r *PostgresLogRepo) FindByID(ctx context.Context, id string) (*model.Log, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, group_id, user_id, log_type, content, visibility,
		        expires_at, chore_type, satisfaction_score, created_at, updated_at
		 FROM logs WHERE id = $1`,
		id,
	)
	log, err := scanLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ログの取得に失敗しました: %w", err)
	}
	return log, nil
}

// ListByGroup はグループのログを新しい順に返す。
// 非公開ログは書いた本人にしか返さない（visibility条件をSQLで強制する）。
func (r *PostgresLogRepo) ListByGroup(ctx context.Context, groupID, viewerID string, limit int) ([]model.Log, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, group_id, user_id, log_type, content, visibility,
		        expires_at, chore_type, satisfaction_score, created_at, updated_at
		 FROM logs
		 WHERE group_id = $1
		   AND (visibility = 'shared' OR user_id = $2)
		 ORDER BY created_at DESC
		 LIMIT $3`,
		groupID, viewerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ログ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var logs []model.Log
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("ログのスキャンに失敗しました: %w", err)
		}
		logs = append(logs, *log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ログ一覧の走査に失敗しました: %w", err)
	}

	return logs, nil
}

// UpdateVisibility はログの公開範囲を更新する。
func (r *PostgresLogRepo) UpdateVisibility(ctx context.Context, id string, visibility model.LogVisibility) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE logs SET visibility = $2, updated_at = now() WHERE id = $1`,
		id, string(visibility),
	)
	if err != nil {
		return fmt.Errorf("ログ公開範囲の更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("log not found: %s", id)
	}
	return nil
}

// LatestSharedAt は指定ユーザーが書いた共有ログの最新created_atを返す。
// 非公開ログは新着シグナルの対象外なので、ここでは常にvisibility='shared'で絞る。
func (r *PostgresLogRepo) LatestSharedAt(ctx context.Context, groupID, userID string) (*time.Time, error) {
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT created_at FROM logs
		 WHERE group_id = $1 AND user_id = $2 AND visibility = 'shared'
		 ORDER BY created_at DESC
		 LIMIT 1`,
		groupID, userID,
	).Scan(&createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("共有ログの最新時刻の取得に失敗しました: %w", err)
	}

	return &createdAt, nil
}

// scanLog は1行分のログを読み取る共通処理。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (*model.Log, error) {
	log := &model.Log{}
	var logType, visibility string
	var expiresAt sql.NullTime
	var choreType sql.NullString
	var score sql.NullInt64

	err := row.Scan(
		&log.ID, &log.GroupID, &log.UserID, &logType, &log.Content, &visibility,
		&expiresAt, &choreType, &score, &log.CreatedAt, &log.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	log.LogType = model.LogType(logType)
	log.Visibility = model.LogVisibility(visibility)
	if expiresAt.Valid {
		log.ExpiresAt = &expiresAt.Time
	}
	if choreType.Valid {
		log.ChoreType = choreType.String
	}
	if score.Valid {
		v := int(score.Int64)
		log.SatisfactionScore = &v
	}

	return log, nil
}

// nullIfEmpty は空文字列をNULLとして保存するためのヘルパー。
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// compile-time interface check
var _ LogRepository = (*PostgresLogRepo)(nil)
