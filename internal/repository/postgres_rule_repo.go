package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/futari/internal/model"
)

// PostgresRuleRepo はPostgreSQLを使用したルールリポジトリ。
type PostgresRuleRepo struct {
	db *sql.DB
}

// NewPostgresRuleRepo はPostgresRuleRepoを生成する。
func NewPostgresRuleRepo(db *sql.DB) *PostgresRuleRepo {
	return &PostgresRuleRepo{db: db}
}

// Create はルールを作成する。
func (r *PostgresRuleRepo) Create(ctx context.Context, rule *model.Rule) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rules (id, group_id, category, title, content, memo, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rule.ID, rule.GroupID, string(rule.Category), rule.Title, rule.Content, rule.Memo,
		rule.CreatedBy, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ルールの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDのルールを取得する。見つからない場合はnilを返す。
func (r *PostgresRuleRepo) FindByID(ctx context.Context, id string) (*model.Rule, error) {
	rule := &model.Rule{}
	var category string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, group_id, category, title, content, memo, created_by, created_at, updated_at
		 FROM rules WHERE id = $1`,
		id,
	).Scan(&rule.ID, &rule.GroupID, &category, &rule.Title, &rule.Content, &rule.Memo,
		&rule.CreatedBy, &rule.CreatedAt, &rule.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ルールの取得に失敗しました: %w", err)
	}

	rule.Category = model.RuleCategory(category)
	return rule, nil
}

// ListByGroup はグループのルールを新しい順に返す。
func (r *PostgresRuleRepo) ListByGroup(ctx context.Context, groupID string) ([]model.Rule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, group_id, category, title, content, memo, created_by, created_at, updated_at
		 FROM rules
		 WHERE group_id = $1
		 ORDER BY created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("ルール一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var rules []model.Rule
	for rows.Next() {
		var rule model.Rule
		var category string
		if err := rows.Scan(&rule.ID, &rule.GroupID, &category, &rule.Title, &rule.Content,
			&rule.Memo, &rule.CreatedBy, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ルールのスキャンに失敗しました: %w", err)
		}
		rule.Category = model.RuleCategory(category)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ルール一覧の走査に失敗しました: %w", err)
	}

	return rules, nil
}

// Update はルールの内容を更新する。
func (r *PostgresRuleRepo) Update(ctx context.Context, rule *model.Rule) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE rules SET category = $2, title = $3, content = $4, memo = $5, updated_at = $6
		 WHERE id = $1`,
		rule.ID, string(rule.Category), rule.Title, rule.Content, rule.Memo, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ルールの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("rule not found: %s", rule.ID)
	}
	return nil
}

// LatestUpdatedAt はグループ内ルールの最新updated_atを返す。
// ルールはグループ共有の決め事なので、stateやfutureと違い書き手では絞らない。
func (r *PostgresRuleRepo) LatestUpdatedAt(ctx context.Context, groupID string) (*time.Time, error) {
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT updated_at FROM rules
		 WHERE group_id = $1
		 ORDER BY updated_at DESC
		 LIMIT 1`,
		groupID,
	).Scan(&updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ルールの最新時刻の取得に失敗しました: %w", err)
	}

	return &updatedAt, nil
}

// compile-time interface check
var _ RuleRepository = (*PostgresRuleRepo)(nil)

// PostgresChecklistRepo はPostgreSQLを使用した同棲チェック項目リポジトリ。
type PostgresChecklistRepo struct {
	db *sql.DB
}

// NewPostgresChecklistRepo はPostgresChecklistRepoを生成する。
func NewPostgresChecklistRepo(db *sql.DB) *PostgresChecklistRepo {
	return &PostgresChecklistRepo{db: db}
}

// FindByID は指定IDのチェック項目を取得する。見つからない場合はnilを返す。
func (r *PostgresChecklistRepo) FindByID(ctx context.Context, id string) (*model.ChecklistItem, error) {
	item := &model.ChecklistItem{}
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, group_id, category, question, status, conclusion, memo, created_at, updated_at
		 FROM checklist_items WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.GroupID, &item.Category, &item.Question, &status,
		&item.Conclusion, &item.Memo, &item.CreatedAt, &item.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("チェック項目の取得に失敗しました: %w", err)
	}

	item.Status = model.ChecklistStatus(status)
	return item, nil
}

// ListByGroup はグループのチェック項目をカテゴリ順に返す。
func (r *PostgresChecklistRepo) ListByGroup(ctx context.Context, groupID string) ([]model.ChecklistItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, group_id, category, question, status, conclusion, memo, created_at, updated_at
		 FROM checklist_items
		 WHERE group_id = $1
		 ORDER BY category ASC, created_at ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("チェック項目一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var items []model.ChecklistItem
	for rows.Next() {
		var item model.ChecklistItem
		var status string
		if err := rows.Scan(&item.ID, &item.GroupID, &item.Category, &item.Question, &status,
			&item.Conclusion, &item.Memo, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("チェック項目のスキャンに失敗しました: %w", err)
		}
		item.Status = model.ChecklistStatus(status)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("チェック項目一覧の走査に失敗しました: %w", err)
	}

	return items, nil
}

// Update はチェック項目の状態・結論・備考を更新する。
func (r *PostgresChecklistRepo) Update(ctx context.Context, item *model.ChecklistItem) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE checklist_items SET status = $2, conclusion = $3, memo = $4, updated_at = $5
		 WHERE id = $1`,
		item.ID, string(item.Status), item.Conclusion, item.Memo, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("チェック項目の更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("checklist item not found: %s", item.ID)
	}
	return nil
}

// compile-time interface check
var _ ChecklistRepository = (*PostgresChecklistRepo)(nil)
