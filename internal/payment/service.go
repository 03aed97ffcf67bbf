// Package payment は注文完了トランザクションと決済ゲートウェイ連携を提供する。
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bistro/internal/model"
)

// PaymentCreator は支払い記録の作成インターフェース。
type PaymentCreator interface {
	Create(ctx context.Context, payment *model.Payment) error
}

// CartReconciler は完了した支払いが参照するカート項目の削除インターフェース。
type CartReconciler interface {
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

// InsertResult は支払い挿入の結果。
type InsertResult struct {
	InsertedID string `json:"insertedId"`
}

// DeleteResult はカート項目削除の結果。
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// CompletionResult は注文完了の複合結果。
// 挿入と削除は独立した2操作であり、呼び出し側が部分的成功を解釈する。
type CompletionResult struct {
	PaymentResult InsertResult `json:"paymentResult"`
	DeleteResult  DeleteResult `json:"deleteResult"`
}

// CompletionService は支払い記録の永続化と、その支払いが置き換える
// カート項目の削除を逐次実行する。
//
// 2つの書き込みを囲むトランザクション境界は存在しない（ベストエフォート逐次実行）。
// 挿入成功後に削除が失敗すると、支払いは記録済みのまま古いカート項目が残る。
// Postgresなら1トランザクションに昇格できるが、部分的失敗の可観測な挙動が
// 変わるため、昇格は明示的な仕様変更としてのみ行うこと。
type CompletionService struct {
	payments PaymentCreator
	carts    CartReconciler
	now      func() time.Time
}

// NewCompletionService はCompletionServiceを生成する。
func NewCompletionService(payments PaymentCreator, carts CartReconciler) *CompletionService {
	return &CompletionService{
		payments: payments,
		carts:    carts,
		now:      time.Now,
	}
}

// Complete は支払いを記録し、参照されたカート項目を削除する。
//
// ステップ1: 支払いの無条件挿入（amountとカート項目価格合計の照合は行わない）。
// ステップ2: CartIDsに含まれるカート項目の削除。
// ステップ1が失敗した場合、ステップ2は実行されない。
// ステップ2が失敗した場合、挿入済みのInsertedIDを含む部分結果とエラーを返す。
func (s *CompletionService) Complete(ctx context.Context, p *model.Payment) (*CompletionResult, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}

	// ステップ1: 支払いを挿入
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("支払いの記録に失敗しました: %w", err)
	}

	result := &CompletionResult{
		PaymentResult: InsertResult{InsertedID: p.ID},
	}

	// ステップ2: 参照されたカート項目を削除
	deleted, err := s.carts.DeleteByIDs(ctx, p.CartIDs)
	if err != nil {
		// 支払いは記録済み。古いカート項目が残る。
		slog.Error("cart reconciliation failed after payment insert",
			slog.String("payment_id", p.ID),
			slog.String("email", p.Email),
			slog.String("error", err.Error()),
		)
		return result, fmt.Errorf("カート項目の削除に失敗しました: %w", err)
	}

	result.DeleteResult = DeleteResult{DeletedCount: deleted}

	slog.Info("payment completed",
		slog.String("payment_id", p.ID),
		slog.String("email", p.Email),
		slog.Float64("amount", p.Amount),
		slog.Int64("carts_deleted", deleted),
	)

	return result, nil
}
