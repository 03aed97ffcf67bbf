package model

import "time"

// CartItem はカート内の1項目を表す。
// 支払い完了時にPaymentのCartIDsから参照され、削除される。
type CartItem struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	MenuItemID string    `json:"menu_item_id"`
	Name       string    `json:"name"`
	Image      string    `json:"image"`
	Price      float64   `json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

// Payment は完了した注文の支払い記録を表す。
// 注文完了ごとに1回だけ作成され、以後更新も削除もされない。
type Payment struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Amount        float64   `json:"amount"`
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"status"`
	CartIDs       []string  `json:"cart_ids"`
	MenuItemIDs   []string  `json:"menu_item_ids"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderStat は支払いと参照先メニュー項目を結合した1行を表す。
// 支払い1件のMenuItemIDsを展開し、(支払い, メニュー項目)の組ごとに1行生成される。
type OrderStat struct {
	PaymentID  string   `json:"payment_id"`
	Email      string   `json:"email"`
	Amount     float64  `json:"amount"`
	MenuItemID string   `json:"menu_item_id"`
	MenuItem   MenuItem `json:"menuItems"`
}

// AdminStats は管理ダッシュボード向けの集計値を表す。
// Revenueは全Paymentのamount合計で、支払いが1件もない場合は0になる。
type AdminStats struct {
	UserCount  int64   `json:"userCount"`
	MenuCount  int64   `json:"menuCount"`
	OrderCount int64   `json:"orderCount"`
	Revenue    float64 `json:"revenue"`
}
