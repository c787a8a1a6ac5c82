package service

import (
	"fmt"
	"log"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"coursedig_backend/internals/configs"
)

// PaymentLink is what the gateway hands back for one created transaction.
type PaymentLink struct {
	Token       string
	RedirectURL string
}

// SnapGateway creates hosted payment pages. Satisfied by *MidtransGateway in
// production and by fakes in tests.
type SnapGateway interface {
	CreatePaymentLink(orderID string, amountCents int64, payerName, payerEmail string) (*PaymentLink, error)
}

type MidtransGateway struct {
	client snap.Client
}

// NewMidtransGatewayFromEnv returns nil when no server key is configured;
// callers treat a nil gateway as "payments disabled".
func NewMidtransGatewayFromEnv() *MidtransGateway {
	if configs.MidtransServerKey == "" {
		log.Println("[WARN] MIDTRANS_SERVER_KEY not set, payment links disabled")
		return nil
	}
	env := midtrans.Sandbox
	if configs.IsProduction() {
		env = midtrans.Production
	}
	g := &MidtransGateway{}
	g.client.New(configs.MidtransServerKey, env)
	return g
}

func (g *MidtransGateway) CreatePaymentLink(orderID string, amountCents int64, payerName, payerEmail string) (*PaymentLink, error) {
	// Midtrans gross amounts are whole currency units.
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amountCents / 100,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: payerName,
			Email: payerEmail,
		},
	}
	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return nil, fmt.Errorf("midtrans create transaction: %w", err)
	}
	return &PaymentLink{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}
