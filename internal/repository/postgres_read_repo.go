package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/futari/internal/model"
)

// PostgresReadRepo はPostgreSQLを使用した閲覧記録リポジトリ。
type PostgresReadRepo struct {
	db *sql.DB
}

// NewPostgresReadRepo はPostgresReadRepoを生成する。
func NewPostgresReadRepo(db *sql.DB) *PostgresReadRepo {
	return &PostgresReadRepo{db: db}
}

// Upsert は(user_id, domain)の閲覧時刻を冪等にUPSERTする。
// UNIQUE(user_id, domain)制約を利用したINSERT ON CONFLICTで実装する。
// last-write-winsなので同時実行しても行は増えない。
func (r *PostgresReadRepo) Upsert(ctx context.Context, userID string, domain model.Domain, seenAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reads (id, user_id, domain, last_seen_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, domain) DO UPDATE SET
		     last_seen_at = EXCLUDED.last_seen_at`,
		uuid.New().String(), userID, string(domain), seenAt,
	)
	if err != nil {
		return fmt.Errorf("閲覧記録の保存に失敗しました: %w", err)
	}
	return nil
}

// ListByUserID は指定ユーザーの全閲覧レコードを返す。
func (r *PostgresReadRepo) ListByUserID(ctx context.Context, userID string) ([]model.Read, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, domain, last_seen_at
		 FROM reads WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("閲覧記録の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var reads []model.Read
	for rows.Next() {
		var rec model.Read
		var domain string
		if err := rows.Scan(&rec.ID, &rec.UserID, &domain, &rec.LastSeenAt); err != nil {
			return nil, fmt.Errorf("閲覧記録のスキャンに失敗しました: %w", err)
		}
		rec.Domain = model.Domain(domain)
		reads = append(reads, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("閲覧記録の走査に失敗しました: %w", err)
	}

	return reads, nil
}

// compile-time interface check
var _ ReadRepository = (*PostgresReadRepo)(nil)
