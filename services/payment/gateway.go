package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"lastmile/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

// GatewayResult is the outcome of a gateway call.
type GatewayResult struct {
	TransactionID string
	Raw           string // Opaque gateway payload, stored as-is.
}

// Gateway abstracts the external payment processor. Calls are bounded by the
// configured timeout; a deadline maps to a gatewayTimeout error, never a
// payment left pending.
type Gateway interface {
	Charge(ctx context.Context, p *models.Payment) (*GatewayResult, error)
	Refund(ctx context.Context, p *models.Payment, amount float64, reason string) (*GatewayResult, error)
}

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct {
	Timeout time.Duration
}

// NewStripeGateway returns a gateway with the given call timeout.
func NewStripeGateway(timeout time.Duration) *StripeGateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &StripeGateway{Timeout: timeout}
}

func (g *StripeGateway) Charge(ctx context.Context, p *models.Payment) (*GatewayResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(p.TotalAmount)),
		Currency: stripe.String(strings.ToLower(p.Currency)),
		Confirm:  stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(p.ID)
	params.AddMetadata("offerId", p.OfferID)
	params.AddMetadata("riderId", p.RiderID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, mapGatewayError(err)
	}
	return &GatewayResult{TransactionID: pi.ID, Raw: string(pi.Status)}, nil
}

func (g *StripeGateway) Refund(ctx context.Context, p *models.Payment, amount float64, reason string) (*GatewayResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(p.ExternalTransactionID),
		Amount:        stripe.Int64(toMinorUnits(amount)),
	}
	params.Context = ctx
	params.AddMetadata("reason", reason)

	ref, err := refund.New(params)
	if err != nil {
		return nil, mapGatewayError(err)
	}
	return &GatewayResult{TransactionID: ref.ID, Raw: string(ref.Status)}, nil
}

// toMinorUnits converts a decimal amount to cents.
func toMinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

func mapGatewayError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newPaymentError(CodeGatewayTimeout, "payment gateway timed out")
	}
	return err
}
