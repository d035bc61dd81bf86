// Package billing wraps the Stripe SDK behind a small interface so services
// stay testable without network access.
package billing

import (
	"context"

	stripe "github.com/stripe/stripe-go/v79"
	stripeclient "github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/spec-kit/whatsapp-crm/internal/config"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// StripeGateway is the subset of Stripe operations the platform consumes.
type StripeGateway interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreateSubscription(ctx context.Context, customerID, priceID string) (string, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	VerifyWebhook(payload []byte, signature string) (stripe.Event, error)
}

type stripeGateway struct {
	api           *stripeclient.API
	webhookSecret string
}

// NewStripeGateway constructs the gateway from config.
func NewStripeGateway(cfg config.StripeConfig) StripeGateway {
	api := &stripeclient.API{}
	api.Init(cfg.SecretKey, nil)
	return &stripeGateway{api: api, webhookSecret: cfg.WebhookSecret}
}

func (g *stripeGateway) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	customer, err := g.api.Customers.New(params)
	if err != nil {
		return "", apperrors.NewUpstreamError("stripe", err)
	}
	return customer.ID, nil
}

func (g *stripeGateway) CreateSubscription(ctx context.Context, customerID, priceID string) (string, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
	}
	params.Context = ctx
	sub, err := g.api.Subscriptions.New(params)
	if err != nil {
		return "", apperrors.NewUpstreamError("stripe", err)
	}
	return sub.ID, nil
}

func (g *stripeGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	if _, err := g.api.Subscriptions.Cancel(subscriptionID, params); err != nil {
		return apperrors.NewUpstreamError("stripe", err)
	}
	return nil
}

func (g *stripeGateway) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return stripe.Event{}, apperrors.NewUnauthorized("invalid webhook signature")
	}
	return event, nil
}
