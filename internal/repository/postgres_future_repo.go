package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/futari/internal/model"
)

// PostgresFutureRepo はPostgreSQLを使用した未来アイテムリポジトリ。
type PostgresFutureRepo struct {
	db *sql.DB
}

// NewPostgresFutureRepo はPostgresFutureRepoを生成する。
func NewPostgresFutureRepo(db *sql.DB) *PostgresFutureRepo {
	return &PostgresFutureRepo{db: db}
}

// Create は未来アイテムを作成する。
func (r *PostgresFutureRepo) Create(ctx context.Context, item *model.FutureItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO future_items (id, group_id, user_id, item_type, title, detail, temperature,
		                           surprise_protected, anniversary_date, anniversary_weight,
		                           pre_discussion, owned, reason, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		item.ID, item.GroupID, item.UserID, string(item.ItemType), item.Title, item.Detail,
		string(item.Temperature), item.SurpriseProtected, item.AnniversaryDate,
		nullIfEmpty(string(item.AnniversaryWeight)), item.PreDiscussion, item.Owned, item.Reason,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("未来アイテムの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDの未来アイテムを取得する。見つからない場合はnilを返す。
func (r *PostgresFutureRepo) FindByID(ctx context.Context, id string) (*model.FutureItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, group_id, user_id, item_type, title, detail, temperature,
		        surprise_protected, anniversary_date, anniversary_weight,
		        pre_discussion, owned, reason, created_at, updated_at
		 FROM future_items WHERE id = $1`,
		id,
	)
	item, err := scanFutureItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("未来アイテムの取得に失敗しました: %w", err)
	}
	return item, nil
}

// ListByGroup はグループの未来アイテムを新しい順に返す。
// サプライズ保護されたアイテムは提案者本人にしか返さない（SQLで強制する）。
func (r *PostgresFutureRepo) ListByGroup(ctx context.Context, groupID, viewerID string) ([]model.FutureItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, group_id, user_id, item_type, title, detail, temperature,
		        surprise_protected, anniversary_date, anniversary_weight,
		        pre_discussion, owned, reason, created_at, updated_at
		 FROM future_items
		 WHERE group_id = $1
		   AND (NOT surprise_protected OR user_id = $2)
		 ORDER BY created_at DESC`,
		groupID, viewerID,
	)
	if err != nil {
		return nil, fmt.Errorf("未来アイテム一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var items []model.FutureItem
	for rows.Next() {
		item, err := scanFutureItem(rows)
		if err != nil {
			return nil, fmt.Errorf("未来アイテムのスキャンに失敗しました: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("未来アイテム一覧の走査に失敗しました: %w", err)
	}

	return items, nil
}

// Update は未来アイテムを更新する。
func (r *PostgresFutureRepo) Update(ctx context.Context, item *model.FutureItem) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE future_items SET
		     title = $2, detail = $3, temperature = $4, surprise_protected = $5,
		     anniversary_date = $6, anniversary_weight = $7, pre_discussion = $8,
		     owned = $9, reason = $10, updated_at = $11
		 WHERE id = $1`,
		item.ID, item.Title, item.Detail, string(item.Temperature), item.SurpriseProtected,
		item.AnniversaryDate, nullIfEmpty(string(item.AnniversaryWeight)), item.PreDiscussion,
		item.Owned, item.Reason, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("未来アイテムの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("future item not found: %s", item.ID)
	}
	return nil
}

// Delete は未来アイテムを削除する。
func (r *PostgresFutureRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM future_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("未来アイテムの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("future item not found: %s", id)
	}
	return nil
}

// LatestUpdatedAtByUser は指定ユーザーが提案した未来アイテムの最新updated_atを返す。
// サプライズ保護されたアイテムは相手への新着シグナルにしない。
func (r *PostgresFutureRepo) LatestUpdatedAtByUser(ctx context.Context, groupID, userID string) (*time.Time, error) {
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT updated_at FROM future_items
		 WHERE group_id = $1 AND user_id = $2 AND NOT surprise_protected
		 ORDER BY updated_at DESC
		 LIMIT 1`,
		groupID, userID,
	).Scan(&updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("未来アイテムの最新時刻の取得に失敗しました: %w", err)
	}

	return &updatedAt, nil
}

func scanFutureItem(row rowScanner) (*model.FutureItem, error) {
	item := &model.FutureItem{}
	var itemType, temperature string
	var anniversaryDate sql.NullTime
	var anniversaryWeight sql.NullString
	var preDiscussion, owned sql.NullBool

	err := row.Scan(
		&item.ID, &item.GroupID, &item.UserID, &itemType, &item.Title, &item.Detail,
		&temperature, &item.SurpriseProtected, &anniversaryDate, &anniversaryWeight,
		&preDiscussion, &owned, &item.Reason, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.ItemType = model.FutureItemType(itemType)
	item.Temperature = model.Temperature(temperature)
	if anniversaryDate.Valid {
		item.AnniversaryDate = &anniversaryDate.Time
	}
	if anniversaryWeight.Valid {
		item.AnniversaryWeight = model.AnniversaryWeight(anniversaryWeight.String)
	}
	if preDiscussion.Valid {
		item.PreDiscussion = &preDiscussion.Bool
	}
	if owned.Valid {
		item.Owned = &owned.Bool
	}

	return item, nil
}

// compile-time interface check
var _ FutureRepository = (*PostgresFutureRepo)(nil)
