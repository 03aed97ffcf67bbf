package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/bistro/internal/model"
)

// StatsServiceInterface は統計ハンドラーが必要とするサービスインターフェース。
type StatsServiceInterface interface {
	// AdminStats は管理ダッシュボード向けの集計値を返す。
	AdminStats(ctx context.Context) (*model.AdminStats, error)
	// OrderStats は支払いと参照先メニュー項目を結合した行を返す。
	OrderStats(ctx context.Context) ([]model.OrderStat, error)
	// CategoryCounts はカテゴリごとのメニュー項目数を返す。
	CategoryCounts(ctx context.Context) ([]model.CategoryCount, error)
}

// StatsHandler は読み取り専用集計のHTTPハンドラー。
type StatsHandler struct {
	service StatsServiceInterface
}

// NewStatsHandler はStatsHandlerを生成する。
func NewStatsHandler(service StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: service}
}

// AdminStats は件数と収益の集計を取得する。
// GET /admin-stats
func (h *StatsHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.AdminStats(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// OrderStats は支払いとメニュー項目の結合行を取得する。
// GET /order-stat
func (h *StatsHandler) OrderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.OrderStats(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// CategoryCounts はカテゴリごとのメニュー項目数を取得する。
// GET /category-count
func (h *StatsHandler) CategoryCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.CategoryCounts(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}
