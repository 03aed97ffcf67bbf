// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/bistro/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail は指定emailのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// List は全ユーザーを返す。
	List(ctx context.Context) ([]*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// PromoteToAdmin は指定IDのユーザーのロールをadminに更新する。
	// すでにadminの場合も成功する（冪等）。更新対象行数を返す。
	PromoteToAdmin(ctx context.Context, id string) (int64, error)

	// DeleteByID は指定IDのユーザーを削除する。削除行数を返す。
	DeleteByID(ctx context.Context, id string) (int64, error)

	// Count はユーザー数を返す。
	Count(ctx context.Context) (int64, error)
}

// MenuRepository はメニューデータの永続化インターフェース。
type MenuRepository interface {
	// List は全メニュー項目を返す。
	List(ctx context.Context) ([]*model.MenuItem, error)

	// FindByID は指定IDのメニュー項目を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.MenuItem, error)

	// Create はメニュー項目を作成する。
	Create(ctx context.Context, item *model.MenuItem) error

	// Update は指定IDのメニュー項目を上書き更新する。更新行数を返す。
	Update(ctx context.Context, item *model.MenuItem) (int64, error)

	// DeleteByID は指定IDのメニュー項目を削除する。削除行数を返す。
	DeleteByID(ctx context.Context, id string) (int64, error)

	// Count はメニュー項目数を返す。
	Count(ctx context.Context) (int64, error)

	// CategoryCounts はカテゴリごとの項目数を返す。
	// カテゴリごとに1行、順序は保証しない。
	CategoryCounts(ctx context.Context) ([]model.CategoryCount, error)
}

// ReviewRepository はレビューデータの永続化インターフェース。
type ReviewRepository interface {
	// List は全レビューを返す。
	List(ctx context.Context) ([]*model.Review, error)

	// Create はレビューを作成する。
	Create(ctx context.Context, review *model.Review) error
}

// CartRepository はカートデータの永続化インターフェース。
type CartRepository interface {
	// List は全カート項目を返す。emailが空でない場合は所有者で絞り込む。
	List(ctx context.Context, email string) ([]*model.CartItem, error)

	// Create はカート項目を作成する。
	Create(ctx context.Context, item *model.CartItem) error

	// DeleteByID は指定IDのカート項目を削除する。削除行数を返す。
	DeleteByID(ctx context.Context, id string) (int64, error)

	// DeleteByIDs は指定ID群に含まれるカート項目をすべて削除する。削除行数を返す。
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

// PaymentRepository は支払いデータの永続化インターフェース。
type PaymentRepository interface {
	// Create は支払い記録を作成する。
	Create(ctx context.Context, payment *model.Payment) error

	// List は全支払いを返す。emailが空でない場合は支払い者で絞り込む。
	List(ctx context.Context, email string) ([]*model.Payment, error)

	// Count は支払い数を返す。
	Count(ctx context.Context) (int64, error)

	// SumAmount は全支払いのamount合計を返す。支払いが存在しない場合は0を返す。
	SumAmount(ctx context.Context) (float64, error)

	// OrderStats は各支払いのMenuItemIDsを展開し、メニュー項目と結合した行を返す。
	// (支払い, 参照メニュー項目)の組ごとに1行。グルーピングは行わない。
	OrderStats(ctx context.Context) ([]model.OrderStat, error)
}
