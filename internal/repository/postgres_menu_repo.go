package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/bistro/internal/model"
)

// PostgresMenuRepo はPostgreSQLを使用したメニューリポジトリ。
type PostgresMenuRepo struct {
	db *sql.DB
}

// NewPostgresMenuRepo はPostgresMenuRepoを生成する。
func NewPostgresMenuRepo(db *sql.DB) *PostgresMenuRepo {
	return &PostgresMenuRepo{db: db}
}

// List は全メニュー項目を作成日時順で返す。
func (r *PostgresMenuRepo) List(ctx context.Context) ([]*model.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, price, recipe, image, created_at
		 FROM menu_items ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	items := []*model.MenuItem{}
	for rows.Next() {
		item := &model.MenuItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price,
			&item.Recipe, &item.Image, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu items: %w", err)
	}

	return items, nil
}

// FindByID は指定IDのメニュー項目を取得する。見つからない場合はnilを返す。
func (r *PostgresMenuRepo) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	item := &model.MenuItem{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category, price, recipe, image, created_at
		 FROM menu_items WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.Name, &item.Category, &item.Price,
		&item.Recipe, &item.Image, &item.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find menu item by ID: %w", err)
	}

	return item, nil
}

// Create はメニュー項目を作成する。
func (r *PostgresMenuRepo) Create(ctx context.Context, item *model.MenuItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO menu_items (id, name, category, price, recipe, image, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.Name, item.Category, item.Price, item.Recipe, item.Image, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}

	return nil
}

// Update は指定IDのメニュー項目を上書き更新する。
func (r *PostgresMenuRepo) Update(ctx context.Context, item *model.MenuItem) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE menu_items
		 SET name = $1, category = $2, price = $3, recipe = $4, image = $5
		 WHERE id = $6`,
		item.Name, item.Category, item.Price, item.Recipe, item.Image, item.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update menu item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected, nil
}

// DeleteByID は指定IDのメニュー項目を削除する。
func (r *PostgresMenuRepo) DeleteByID(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM menu_items WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete menu item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected, nil
}

// Count はメニュー項目数を返す。
func (r *PostgresMenuRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	return count, nil
}

// CategoryCounts はカテゴリごとの項目数を返す。
func (r *PostgresMenuRepo) CategoryCounts(ctx context.Context) ([]model.CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM menu_items GROUP BY category`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	defer rows.Close()

	counts := []model.CategoryCount{}
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category counts: %w", err)
	}

	return counts, nil
}

// compile-time interface check
var _ MenuRepository = (*PostgresMenuRepo)(nil)
