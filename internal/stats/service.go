// Package stats は保存済みデータからの読み取り専用集計を提供する。
package stats

import (
	"context"
	"fmt"

	"github.com/hitoshi/bistro/internal/model"
)

// UserCounter はユーザー数の取得インターフェース。
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// MenuAggregator はメニューの集計インターフェース。
type MenuAggregator interface {
	Count(ctx context.Context) (int64, error)
	CategoryCounts(ctx context.Context) ([]model.CategoryCount, error)
}

// PaymentAggregator は支払いの集計インターフェース。
type PaymentAggregator interface {
	Count(ctx context.Context) (int64, error)
	SumAmount(ctx context.Context) (float64, error)
	OrderStats(ctx context.Context) ([]model.OrderStat, error)
}

// Service は収益とカテゴリ分布の読み取り専用集計サービス。
// 一切の状態変更を行わない。
type Service struct {
	users    UserCounter
	menu     MenuAggregator
	payments PaymentAggregator
}

// NewService はServiceを生成する。
func NewService(users UserCounter, menu MenuAggregator, payments PaymentAggregator) *Service {
	return &Service{
		users:    users,
		menu:     menu,
		payments: payments,
	}
}

// AdminStats は管理ダッシュボード向けの集計値を返す。
// Revenueは全支払いのamount合計で、支払いが1件もない場合は0になる。
func (s *Service) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー数の取得に失敗しました: %w", err)
	}

	menuCount, err := s.menu.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("メニュー数の取得に失敗しました: %w", err)
	}

	orderCount, err := s.payments.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("注文数の取得に失敗しました: %w", err)
	}

	revenue, err := s.payments.SumAmount(ctx)
	if err != nil {
		return nil, fmt.Errorf("収益の集計に失敗しました: %w", err)
	}

	return &model.AdminStats{
		UserCount:  userCount,
		MenuCount:  menuCount,
		OrderCount: orderCount,
		Revenue:    revenue,
	}, nil
}

// OrderStats は支払いと参照先メニュー項目を結合した行を返す。
// 支払いごとのMenuItemIDsを展開し、(支払い, メニュー項目)の組ごとに1行。
// 追加のグルーピングは行わない。
func (s *Service) OrderStats(ctx context.Context) ([]model.OrderStat, error) {
	stats, err := s.payments.OrderStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("注文集計の取得に失敗しました: %w", err)
	}
	return stats, nil
}

// CategoryCounts はメニュー項目をカテゴリでグループ化し、
// カテゴリごとの項目数を返す。
func (s *Service) CategoryCounts(ctx context.Context) ([]model.CategoryCount, error) {
	counts, err := s.menu.CategoryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ集計の取得に失敗しました: %w", err)
	}
	return counts, nil
}
