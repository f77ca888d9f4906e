package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(Config{
		SecretKey:               "sk_test_key",
		WebhookSecret:           "whsec_test",
		WebhookToleranceSeconds: 300,
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return client
}

func signTestPayload(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10) + "." + string(payload)))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookValidSignature(t *testing.T) {
	client := newTestClient(t)
	payload := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_123", "object": "payment_intent", "amount": 52500, "currency": "inr", "latest_charge": "ch_123"}}
	}`)
	now := time.Now()
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), signTestPayload("whsec_test", now.Unix(), payload))

	event, err := client.VerifyWebhook(payload, header, now)
	if err != nil {
		t.Fatalf("VerifyWebhook error: %v", err)
	}
	if event.EventID != "evt_1" || event.Type != "payment_intent.succeeded" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.IntentID != "pi_123" {
		t.Fatalf("expected intent pi_123, got %s", event.IntentID)
	}
	if event.TransactionID != "ch_123" {
		t.Fatalf("expected charge ch_123, got %s", event.TransactionID)
	}
	if event.Amount != "525.00" {
		t.Fatalf("expected amount 525.00, got %s", event.Amount)
	}
}

func TestVerifyWebhookBadSignature(t *testing.T) {
	client := newTestClient(t)
	payload := []byte(`{"id":"evt_1","type":"x","data":{"object":{}}}`)
	now := time.Now()
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), signTestPayload("wrong_secret", now.Unix(), payload))

	if _, err := client.VerifyWebhook(payload, header, now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got: %v", err)
	}
}

func TestVerifyWebhookMissingHeader(t *testing.T) {
	client := newTestClient(t)
	if _, err := client.VerifyWebhook([]byte("{}"), "", time.Now()); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got: %v", err)
	}
}

func TestVerifyWebhookTimestampOutsideTolerance(t *testing.T) {
	client := newTestClient(t)
	payload := []byte(`{"id":"evt_1","type":"x","data":{"object":{}}}`)
	old := time.Now().Add(-time.Hour)
	header := fmt.Sprintf("t=%d,v1=%s", old.Unix(), signTestPayload("whsec_test", old.Unix(), payload))

	if _, err := client.VerifyWebhook(payload, header, time.Now()); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid for stale timestamp, got: %v", err)
	}
}

func TestVerifyWebhookSecondSignatureAccepted(t *testing.T) {
	client := newTestClient(t)
	payload := []byte(`{"id":"evt_1","type":"charge.refunded","data":{"object":{"id":"ch_9","object":"charge","amount_refunded":4000,"currency":"inr"}}}`)
	now := time.Now()
	good := signTestPayload("whsec_test", now.Unix(), payload)
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(), "deadbeef", good)

	event, err := client.VerifyWebhook(payload, header, now)
	if err != nil {
		t.Fatalf("VerifyWebhook error: %v", err)
	}
	if event.AmountRefunded != "40.00" {
		t.Fatalf("expected amount_refunded 40.00, got %s", event.AmountRefunded)
	}
	if event.TransactionID != "ch_9" {
		t.Fatalf("expected charge id ch_9, got %s", event.TransactionID)
	}
}

func TestToMinorAmount(t *testing.T) {
	cases := []struct {
		amount   string
		currency string
		want     int64
	}{
		{"525.00", "inr", 52500},
		{"0.50", "usd", 50},
		{"1200", "jpy", 1200},
		{"99.99", "INR", 9999},
	}
	for _, tc := range cases {
		got, err := ToMinorAmount(tc.amount, tc.currency)
		if err != nil {
			t.Fatalf("ToMinorAmount(%s, %s) error: %v", tc.amount, tc.currency, err)
		}
		if got != tc.want {
			t.Errorf("ToMinorAmount(%s, %s) = %d, want %d", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestToMinorAmountRejectsNonPositive(t *testing.T) {
	if _, err := ToMinorAmount("0", "inr"); err == nil {
		t.Fatalf("expected error for zero amount")
	}
	if _, err := ToMinorAmount("-5", "inr"); err == nil {
		t.Fatalf("expected error for negative amount")
	}
	if _, err := ToMinorAmount("abc", "inr"); err == nil {
		t.Fatalf("expected error for malformed amount")
	}
}

func TestFromMinorAmount(t *testing.T) {
	if got := FromMinorAmount(52500, "inr"); got != "525.00" {
		t.Errorf("FromMinorAmount(52500, inr) = %s, want 525.00", got)
	}
	if got := FromMinorAmount(1200, "jpy"); got != "1200" {
		t.Errorf("FromMinorAmount(1200, jpy) = %s, want 1200", got)
	}
}

func TestNewClientRequiresSecretKey(t *testing.T) {
	if _, err := NewClient(Config{WebhookSecret: "whsec"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got: %v", err)
	}
}
