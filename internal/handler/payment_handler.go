package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/payment"
	"github.com/hitoshi/bistro/internal/repository"
)

// paymentIntentRequest はPaymentIntent作成リクエストのボディ。
type paymentIntentRequest struct {
	Price float64 `json:"price"`
}

// paymentRequest は支払い完了リクエストのボディ。
// menuItemIdキーはクライアント側の命名をそのまま受ける。
type paymentRequest struct {
	Email         string   `json:"email"`
	Amount        float64  `json:"amount"`
	TransactionID string   `json:"transactionId"`
	Status        string   `json:"status"`
	CartIDs       []string `json:"cartIds"`
	MenuItemIDs   []string `json:"menuItemId"`
}

// CompletionServiceInterface は支払いハンドラーが必要とするサービスインターフェース。
type CompletionServiceInterface interface {
	// Complete は支払いを記録し、参照されたカート項目を削除する。
	Complete(ctx context.Context, p *model.Payment) (*payment.CompletionResult, error)
}

// PaymentRecorder は支払い完了のメトリクス記録インターフェース。
type PaymentRecorder interface {
	RecordPaymentCompleted()
	RecordCartItemsReconciled(count int64)
}

// PaymentHandler は支払いのHTTPハンドラー。
type PaymentHandler struct {
	gateway    payment.Gateway
	completion CompletionServiceInterface
	repo       repository.PaymentRepository
	recorder   PaymentRecorder
}

// NewPaymentHandler はPaymentHandlerを生成する。
// recorderはnilでもよい（メトリクス無効時）。
func NewPaymentHandler(
	gateway payment.Gateway,
	completion CompletionServiceInterface,
	repo repository.PaymentRepository,
	recorder PaymentRecorder,
) *PaymentHandler {
	return &PaymentHandler{
		gateway:    gateway,
		completion: completion,
		repo:       repo,
		recorder:   recorder,
	}
}

// CreateIntent は外部決済ゲートウェイにPaymentIntentの作成を委譲する。
// 決済の確認はクライアントとゲートウェイの間で帯域外に行われる。
// POST /create-payment-intent
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req paymentIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	clientSecret, err := h.gateway.CreateIntent(r.Context(), req.Price)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": clientSecret})
}

// Complete は支払いを記録し、参照されたカート項目を削除する。
// 両ステップの結果を1つの複合レスポンスとして返す。
// POST /payments
func (h *PaymentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.completion.Complete(r.Context(), &model.Payment{
		Email:         req.Email,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		Status:        req.Status,
		CartIDs:       req.CartIDs,
		MenuItemIDs:   req.MenuItemIDs,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordPaymentCompleted()
		h.recorder.RecordCartItemsReconciled(result.DeleteResult.DeletedCount)
	}

	writeJSON(w, http.StatusOK, result)
}

// List は支払い一覧を取得する。emailクエリで支払い者を絞り込める。
// GET /payments?email=xxx
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	payments, err := h.repo.List(r.Context(), email)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payments)
}
