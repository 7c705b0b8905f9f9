// Package billing integrates Stripe Checkout for the paid plan. The flow is
// the standard one: the API creates a checkout session, Stripe redirects the
// user back, and a signed webhook flips the account to the paid plan.
package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// PaidQuota is the memory quota of the paid plan. Zero means unlimited.
const PaidQuota = 0

type Service struct {
	store         store.Store
	webhookSecret string
	priceID       string
	successURL    string
	cancelURL     string
}

type Options struct {
	SecretKey     string
	WebhookSecret string
	PriceID       string
	SuccessURL    string
	CancelURL     string
}

func New(s store.Store, opts Options) *Service {
	stripe.Key = opts.SecretKey
	return &Service{
		store:         s,
		webhookSecret: opts.WebhookSecret,
		priceID:       opts.PriceID,
		successURL:    opts.SuccessURL,
		cancelURL:     opts.CancelURL,
	}
}

// CreateCheckoutSession starts a subscription checkout for the user and
// returns the hosted payment page URL. The user id rides along as the client
// reference so the webhook can map the completed session back to an account.
func (s *Service) CreateCheckoutSession(ctx context.Context, userID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(s.priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(userID),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// HandleWebhook verifies the Stripe signature and processes the event.
// Events are deduplicated by id, so Stripe's redeliveries are no-ops.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	fresh, err := s.store.Users().RecordBillingEvent(ctx, event.ID)
	if err != nil {
		return err
	}
	if !fresh {
		log.Debug().Str("eventId", event.ID).Msg("billing event already processed")
		return nil
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("parse checkout session: %w", err)
		}
		if sess.ClientReferenceID == "" {
			return fmt.Errorf("checkout session %s has no client reference", sess.ID)
		}
		if err := s.store.Users().SetPlan(ctx, sess.ClientReferenceID, model.PlanPaid, PaidQuota); err != nil {
			return err
		}
		log.Info().Str("userId", sess.ClientReferenceID).Msg("account upgraded to paid plan")
	default:
		log.Debug().Str("type", string(event.Type)).Msg("ignoring billing event")
	}
	return nil
}
