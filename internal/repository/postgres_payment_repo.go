package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/bistro/internal/model"
)

// PostgresPaymentRepo はPostgreSQLを使用した支払いリポジトリ。
type PostgresPaymentRepo struct {
	db *sql.DB
}

// NewPostgresPaymentRepo はPostgresPaymentRepoを生成する。
func NewPostgresPaymentRepo(db *sql.DB) *PostgresPaymentRepo {
	return &PostgresPaymentRepo{db: db}
}

// Create は支払い記録を作成する。
func (r *PostgresPaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, email, amount, transaction_id, status, cart_ids, menu_item_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		payment.ID, payment.Email, payment.Amount, payment.TransactionID, payment.Status,
		pq.Array(payment.CartIDs), pq.Array(payment.MenuItemIDs), payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// List は全支払いを作成日時順で返す。emailが空でない場合は支払い者で絞り込む。
func (r *PostgresPaymentRepo) List(ctx context.Context, email string) ([]*model.Payment, error) {
	query := `SELECT id, email, amount, transaction_id, status, cart_ids, menu_item_ids, created_at
	          FROM payments`
	args := []any{}
	if email != "" {
		query += ` WHERE email = $1`
		args = append(args, email)
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []*model.Payment{}
	for rows.Next() {
		payment := &model.Payment{}
		if err := rows.Scan(&payment.ID, &payment.Email, &payment.Amount,
			&payment.TransactionID, &payment.Status,
			pq.Array(&payment.CartIDs), pq.Array(&payment.MenuItemIDs),
			&payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

// Count は支払い数を返す。
func (r *PostgresPaymentRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return count, nil
}

// SumAmount は全支払いのamount合計を返す。
// 支払いが1件も存在しない場合は0を返す（NULLにはしない）。
func (r *PostgresPaymentRepo) SumAmount(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments`,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum payment amounts: %w", err)
	}
	return sum, nil
}

// OrderStats は各支払いのMenuItemIDsを展開し、メニュー項目と結合した行を返す。
// (支払い, 参照メニュー項目)の組ごとに1行生成される。
// 存在しないメニュー項目を参照するIDは結合で落ちる。グルーピングは行わない。
func (r *PostgresPaymentRepo) OrderStats(ctx context.Context) ([]model.OrderStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.email, p.amount, m.id,
		        m.id, m.name, m.category, m.price, m.recipe, m.image, m.created_at
		 FROM payments p
		 CROSS JOIN LATERAL unnest(p.menu_item_ids) AS mid
		 JOIN menu_items m ON m.id = mid
		 ORDER BY p.created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order stats: %w", err)
	}
	defer rows.Close()

	stats := []model.OrderStat{}
	for rows.Next() {
		var s model.OrderStat
		if err := rows.Scan(&s.PaymentID, &s.Email, &s.Amount, &s.MenuItemID,
			&s.MenuItem.ID, &s.MenuItem.Name, &s.MenuItem.Category,
			&s.MenuItem.Price, &s.MenuItem.Recipe, &s.MenuItem.Image,
			&s.MenuItem.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order stats: %w", err)
	}

	return stats, nil
}

// compile-time interface check
var _ PaymentRepository = (*PostgresPaymentRepo)(nil)
