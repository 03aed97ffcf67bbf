package payment

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Gateway は外部決済ゲートウェイのインターフェース。
// PaymentIntentを作成し、クライアント側での決済確認に使うシークレットを返す。
// 実際の資金移動はゲートウェイ側で行われ、このコアからは不透明に扱う。
type Gateway interface {
	CreateIntent(ctx context.Context, price float64) (clientSecret string, err error)
}

// StripeGateway はStripeを使用したGatewayの実装。
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway はStripeGatewayを生成する。
// secretKeyにはSTRIPE_SECRET_KEYを渡す。
func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

// CreateIntent は指定価格のPaymentIntentを作成してクライアントシークレットを返す。
// 価格はマイナー通貨単位（セント）に変換される（price × 100の切り捨て）。
func (g *StripeGateway) CreateIntent(ctx context.Context, price float64) (string, error) {
	amount := int64(price * 100)

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	return intent.ClientSecret, nil
}

// compile-time interface check
var _ Gateway = (*StripeGateway)(nil)
