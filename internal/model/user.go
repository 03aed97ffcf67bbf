// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限ロールを表す。
type Role string

const (
	// RoleCustomer は一般顧客ロール。
	RoleCustomer Role = "customer"
	// RoleAdmin は管理者ロール。メニュー変更やユーザー管理が許可される。
	RoleAdmin Role = "admin"
)

// User はサービス利用ユーザーを表す。
// emailが一意キーであり、認可判定はemailで引いたroleに基づく。
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin はユーザーが管理者ロールかどうかを返す。
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
