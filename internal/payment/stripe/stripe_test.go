package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"
)

func TestValidateConfig(t *testing.T) {
	cfg := &Config{SecretKey: " sk_test_123 "}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("validate config failed: %v", err)
	}
	if cfg.SecretKey != "sk_test_123" {
		t.Fatalf("unexpected secret key: %s", cfg.SecretKey)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("unexpected default api base url: %s", cfg.APIBaseURL)
	}
	if cfg.WebhookToleranceSeconds != defaultWebhookToleranceS {
		t.Fatalf("unexpected default tolerance: %d", cfg.WebhookToleranceSeconds)
	}
	if err := ValidateConfig(&Config{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid, got: %v", err)
	}
}

func webhookBody(t *testing.T, eventType string, created int64) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"id":   "evt_test_1",
		"type": eventType,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"object":          "payment_intent",
				"id":              "pi_test_123",
				"status":          "succeeded",
				"currency":        "eur",
				"amount":          7970,
				"amount_received": 7970,
				"created":         created,
				"metadata": map[string]interface{}{
					"order_id": "AVA-TEST1",
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return body
}

func TestVerifyAndParseWebhookPaymentIntentSucceeded(t *testing.T) {
	now := time.Unix(1760000000, 0)
	cfg := &Config{
		WebhookSecret:           "whsec_test_abc",
		WebhookToleranceSeconds: 300,
	}
	body := webhookBody(t, "payment_intent.succeeded", now.Unix())
	sig := computeSignature(cfg.WebhookSecret, now.Unix(), body)
	headers := map[string]string{
		"stripe-signature": fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig),
	}

	result, err := VerifyAndParseWebhook(cfg, headers, body, now)
	if err != nil {
		t.Fatalf("verify and parse webhook failed: %v", err)
	}
	if result.EventType != "payment_intent.succeeded" {
		t.Fatalf("unexpected event type: %s", result.EventType)
	}
	if result.OrderID != "AVA-TEST1" {
		t.Fatalf("unexpected order id: %s", result.OrderID)
	}
	if result.PaymentIntentID != "pi_test_123" {
		t.Fatalf("unexpected payment intent id: %s", result.PaymentIntentID)
	}
	if result.Status != "success" {
		t.Fatalf("unexpected status: %s", result.Status)
	}
	if result.Amount != "79.70" {
		t.Fatalf("unexpected amount: %s", result.Amount)
	}
	if result.Currency != "EUR" {
		t.Fatalf("unexpected currency: %s", result.Currency)
	}
	if result.PaidAt == nil || result.PaidAt.Unix() != now.Unix() {
		t.Fatalf("unexpected paid at: %+v", result.PaidAt)
	}
}

func TestVerifyAndParseWebhookRejectsBadSignature(t *testing.T) {
	now := time.Unix(1760000000, 0)
	cfg := &Config{WebhookSecret: "whsec_test_abc"}
	body := webhookBody(t, "payment_intent.succeeded", now.Unix())

	headers := map[string]string{
		"Stripe-Signature": fmt.Sprintf("t=%d,v1=%s", now.Unix(), computeSignature("whsec_wrong", now.Unix(), body)),
	}
	if _, err := VerifyAndParseWebhook(cfg, headers, body, now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected signature invalid, got: %v", err)
	}

	if _, err := VerifyAndParseWebhook(cfg, map[string]string{}, body, now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected missing header rejection, got: %v", err)
	}

	if _, err := VerifyAndParseWebhook(cfg, map[string]string{"Stripe-Signature": "v1=deadbeef"}, body, now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected missing timestamp rejection, got: %v", err)
	}
}

func TestVerifyAndParseWebhookRejectsStaleTimestamp(t *testing.T) {
	signedAt := time.Unix(1760000000, 0)
	cfg := &Config{
		WebhookSecret:           "whsec_test_abc",
		WebhookToleranceSeconds: 300,
	}
	body := webhookBody(t, "payment_intent.succeeded", signedAt.Unix())
	sig := computeSignature(cfg.WebhookSecret, signedAt.Unix(), body)
	headers := map[string]string{
		"Stripe-Signature": fmt.Sprintf("t=%d,v1=%s", signedAt.Unix(), sig),
	}

	late := signedAt.Add(10 * time.Minute)
	if _, err := VerifyAndParseWebhook(cfg, headers, body, late); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected stale timestamp rejection, got: %v", err)
	}
}

func TestVerifyAndParseWebhookFailedEvent(t *testing.T) {
	now := time.Unix(1760000000, 0)
	cfg := &Config{WebhookSecret: "whsec_test_abc"}
	body := webhookBody(t, "payment_intent.payment_failed", now.Unix())
	sig := computeSignature(cfg.WebhookSecret, now.Unix(), body)
	headers := map[string]string{
		"Stripe-Signature": fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig),
	}

	result, err := VerifyAndParseWebhook(cfg, headers, body, now)
	if err != nil {
		t.Fatalf("verify and parse webhook failed: %v", err)
	}
	if result.Status != "failed" {
		t.Fatalf("unexpected status: %s", result.Status)
	}
}

func TestToMinorAmount(t *testing.T) {
	cases := []struct {
		amount   string
		currency string
		want     int64
		wantErr  bool
	}{
		{amount: "79.70", currency: "EUR", want: 7970},
		{amount: "39.90", currency: "eur", want: 3990},
		{amount: "1288", currency: "JPY", want: 1288},
		{amount: "0", currency: "EUR", wantErr: true},
		{amount: "-5", currency: "EUR", wantErr: true},
		{amount: "abc", currency: "EUR", wantErr: true},
	}
	for i, tc := range cases {
		got, err := toMinorAmount(tc.amount, tc.currency)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("case %d: expected error for amount %q", i, tc.amount)
			}
			continue
		}
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if got != tc.want {
			t.Fatalf("case %d: got %d want %d", i, got, tc.want)
		}
	}
}

func TestFromMinorAmount(t *testing.T) {
	if got := fromMinorAmount(7970, "EUR"); got != "79.70" {
		t.Fatalf("unexpected amount: %s", got)
	}
	if got := fromMinorAmount(1288, "JPY"); got != "1288" {
		t.Fatalf("unexpected zero-decimal amount: %s", got)
	}
}

func TestParseSignatureHeader(t *testing.T) {
	timestamp, signatures, err := parseSignatureHeader("t=1760000000, v1=ABCDEF, v1=123456, v0=ignored")
	if err != nil {
		t.Fatalf("parse signature header failed: %v", err)
	}
	if timestamp != 1760000000 {
		t.Fatalf("unexpected timestamp: %d", timestamp)
	}
	if len(signatures) != 2 || signatures[0] != "abcdef" {
		t.Fatalf("unexpected signatures: %v", signatures)
	}
	if strconv.FormatInt(timestamp, 10) != "1760000000" {
		t.Fatalf("timestamp formatting mismatch")
	}
}
