package services

import (
	"context"
	"encoding/json"
	"math"

	braintree "github.com/braintree-go/braintree-go"
)

// Gateway abstracts the payment provider so handlers suspend on a plain
// method call instead of threading SDK callbacks.
type Gateway interface {
	// ClientToken requests a token the browser SDK uses to tokenize cards.
	ClientToken(ctx context.Context) (string, error)
	// Sale submits a settlement-requested sale and returns the raw
	// transaction result plus the provider transaction id.
	Sale(ctx context.Context, amount float64, nonce string) (json.RawMessage, string, error)
}

type braintreeGateway struct {
	bt *braintree.Braintree
}

// NewBraintreeGateway builds a Gateway backed by Braintree. env is one of
// "development", "sandbox", "production".
func NewBraintreeGateway(env, merchantID, publicKey, privateKey string) (Gateway, error) {
	environment, err := braintree.EnvironmentFromName(env)
	if err != nil {
		return nil, err
	}
	return &braintreeGateway{bt: braintree.New(environment, merchantID, publicKey, privateKey)}, nil
}

func (g *braintreeGateway) ClientToken(ctx context.Context) (string, error) {
	return g.bt.ClientToken().Generate(ctx)
}

func (g *braintreeGateway) Sale(ctx context.Context, amount float64, nonce string) (json.RawMessage, string, error) {
	tx, err := g.bt.Transaction().Create(ctx, &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             braintree.NewDecimal(int64(math.Round(amount*100)), 2),
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	})
	if err != nil {
		return nil, "", err
	}

	result, err := json.Marshal(tx)
	if err != nil {
		return nil, "", err
	}

	return result, tx.Id, nil
}
