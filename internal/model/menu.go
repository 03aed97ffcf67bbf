package model

import "time"

// MenuItem はメニュー項目を表す。
// Recipeは管理者が入力するHTML断片で、保存前にサニタイズされる。
type MenuItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Recipe    string    `json:"recipe"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// Review はメニューに対するレビューを表す。
type Review struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Details   string    `json:"details"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryCount はカテゴリごとのメニュー項目数を表す。
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
