package billing

import (
	"context"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store/memstore"
)

const testWebhookSecret = "whsec_test"

func signHeader(payload []byte) string {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

// Events must carry the API version pinned by the stripe-go release, or
// ConstructEvent rejects them as a version mismatch.
func eventPayload(eventID, eventType, object string) []byte {
	return fmt.Appendf(nil,
		`{"id":%q,"api_version":%q,"type":%q,"data":{"object":%s}}`,
		eventID, stripe.APIVersion, eventType, object)
}

func checkoutCompletedPayload(eventID, userID string) []byte {
	return eventPayload(eventID, "checkout.session.completed",
		fmt.Sprintf(`{"id":"cs_1","client_reference_id":%q}`, userID))
}

func TestWebhookUpgradesPlan(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	u, err := st.Users().EnsureByExternalID(ctx, "ext-1", "a@b.c")
	require.NoError(t, err)

	svc := New(st, Options{WebhookSecret: testWebhookSecret})
	payload := checkoutCompletedPayload("evt_1", u.UserID)
	require.NoError(t, svc.HandleWebhook(ctx, payload, signHeader(payload)))

	got, err := st.Users().Get(ctx, u.UserID)
	require.NoError(t, err)
	require.Equal(t, model.PlanPaid, got.Plan)
	require.Equal(t, PaidQuota, got.Quota)
}

func TestWebhookRedeliveryIsNoOp(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	u, err := st.Users().EnsureByExternalID(ctx, "ext-1", "a@b.c")
	require.NoError(t, err)

	svc := New(st, Options{WebhookSecret: testWebhookSecret})
	payload := checkoutCompletedPayload("evt_1", u.UserID)
	require.NoError(t, svc.HandleWebhook(ctx, payload, signHeader(payload)))

	// Downgrade out of band, then redeliver the same event id. The dedupe
	// check must skip it rather than re-upgrade.
	require.NoError(t, st.Users().SetPlan(ctx, u.UserID, model.PlanFree, 100))
	require.NoError(t, svc.HandleWebhook(ctx, payload, signHeader(payload)))

	got, err := st.Users().Get(ctx, u.UserID)
	require.NoError(t, err)
	require.Equal(t, model.PlanFree, got.Plan)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	st := memstore.New()
	svc := New(st, Options{WebhookSecret: testWebhookSecret})

	payload := checkoutCompletedPayload("evt_1", "user-1")
	err := svc.HandleWebhook(context.Background(), payload, "t=1,v1=deadbeef")
	require.Error(t, err)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	u, err := st.Users().EnsureByExternalID(ctx, "ext-1", "a@b.c")
	require.NoError(t, err)

	svc := New(st, Options{WebhookSecret: testWebhookSecret})
	payload := eventPayload("evt_2", "invoice.paid", `{"id":"in_1"}`)
	require.NoError(t, svc.HandleWebhook(ctx, payload, signHeader(payload)))

	got, err := st.Users().Get(ctx, u.UserID)
	require.NoError(t, err)
	require.Equal(t, model.PlanFree, got.Plan)
}
