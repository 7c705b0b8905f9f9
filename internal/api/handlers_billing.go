package api

import (
	"io"
	"net/http"

	respond "github.com/keepsakehq/keepsake/server/internal/api/respond"
	"github.com/keepsakehq/keepsake/server/internal/auth"
	"github.com/keepsakehq/keepsake/server/internal/billing"
)

// maxWebhookBytes bounds the webhook payload per Stripe's guidance.
const maxWebhookBytes = 64 << 10

type BillingHandler struct {
	svc *billing.Service
}

func NewBillingHandler(svc *billing.Service) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// CreateCheckout POST /api/billing/checkout
func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	url, err := h.svc.CreateCheckoutSession(r.Context(), user.UserID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

// HandleWebhook POST /api/billing/webhook
// Authenticated by the Stripe signature, not a bearer token.
func (h *BillingHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		respond.WriteBadRequest(w, "failed to read payload")
		return
	}
	if err := h.svc.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}
