package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RedirectParams is what the gateway hands back for the client-side redirect
// to the hosted payment page.
type RedirectParams struct {
	URL           string `json:"url"`
	TransactionID string `json:"transaction_id"`
	MerchantCode  string `json:"merchant_code"`
	Signature     string `json:"signature"`
}

// Gateway is the payment-gateway port. Implementations talk to the real
// provider; the service only sees initiate and refund.
type Gateway interface {
	InitiatePayment(ctx context.Context, p *Payment) (*RedirectParams, error)
	Refund(ctx context.Context, p *Payment, amount float64) error
}

// RedsysGateway is a placeholder Redsys integration. It fabricates redirect
// parameters and accepts every refund; the real protocol (signed form
// fields, SHA-256 MAC) is not implemented.
type RedsysGateway struct {
	MerchantCode string
	RedirectBase string
}

func NewRedsysGateway(merchantCode string) *RedsysGateway {
	return &RedsysGateway{
		MerchantCode: merchantCode,
		RedirectBase: "https://sis-t.redsys.es:25443/sis/realizarPago",
	}
}

func (g *RedsysGateway) InitiatePayment(_ context.Context, p *Payment) (*RedirectParams, error) {
	txn := "TXN-" + uuid.NewString()
	return &RedirectParams{
		URL:           fmt.Sprintf("%s?order=%s", g.RedirectBase, txn),
		TransactionID: txn,
		MerchantCode:  g.MerchantCode,
		Signature:     "placeholder",
	}, nil
}

func (g *RedsysGateway) Refund(_ context.Context, _ *Payment, _ float64) error {
	return nil
}
