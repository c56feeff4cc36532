package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/carnage999-max/ultimate-app-manager/internal/config"
)

const testSecret = "whsec_test"

func signed(t *testing.T, payload string) string {
	t.Helper()
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  testSecret,
	}).Header
}

func TestParseWebhookSucceeded(t *testing.T) {
	payload := `{"id":"evt_1","object":"event","type":"payment_intent.succeeded",
		"data":{"object":{"id":"pi_123","object":"payment_intent","metadata":{"userId":"user-1"}}}}`

	event, err := parseWebhook([]byte(payload), signed(t, payload), testSecret)
	require.NoError(t, err)
	assert.Equal(t, EventIntentSucceeded, event.Type)
	assert.Equal(t, "pi_123", event.IntentID)
	assert.Equal(t, "user-1", event.UserID)
}

func TestParseWebhookIgnoresOtherEvents(t *testing.T) {
	payload := `{"id":"evt_2","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge"}}}`

	event, err := parseWebhook([]byte(payload), signed(t, payload), testSecret)
	require.NoError(t, err)
	assert.Equal(t, "charge.refunded", event.Type)
	assert.Empty(t, event.IntentID)
}

func TestParseWebhookRejectsBadSignature(t *testing.T) {
	payload := `{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`

	_, err := parseWebhook([]byte(payload), "", testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = parseWebhook([]byte(payload), "t=1,v1=deadbeef", testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = parseWebhook([]byte(payload), signed(t, payload), "whsec_other")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestNewStripeProcessorRequiresKey(t *testing.T) {
	_, err := NewStripeProcessor(config.PaymentsConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	p, err := NewStripeProcessor(config.PaymentsConfig{SecretKey: "sk_test_x", WebhookSecret: testSecret})
	require.NoError(t, err)

	payload := `{"id":"evt_3","object":"event","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_9","object":"payment_intent"}}}`
	event, err := p.ParseWebhook([]byte(payload), signed(t, payload))
	require.NoError(t, err)
	assert.Equal(t, "pi_9", event.IntentID)
}
