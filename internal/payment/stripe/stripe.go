package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid    = errors.New("stripe config invalid")
	ErrRequestFailed    = errors.New("stripe request failed")
	ErrResponseInvalid  = errors.New("stripe response invalid")
	ErrSignatureInvalid = errors.New("stripe signature invalid")
)

const (
	defaultAPIBaseURL        = "https://api.stripe.com"
	defaultTimeout           = 12 * time.Second
	defaultWebhookToleranceS = 300
)

// Currencies whose minor unit equals the major unit.
var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {},
	"CLP": {},
	"DJF": {},
	"GNF": {},
	"JPY": {},
	"KMF": {},
	"KRW": {},
	"MGA": {},
	"PYG": {},
	"RWF": {},
	"UGX": {},
	"VND": {},
	"VUV": {},
	"XAF": {},
	"XOF": {},
	"XPF": {},
}

// Config holds gateway credentials and endpoints.
type Config struct {
	SecretKey               string
	WebhookSecret           string
	APIBaseURL              string
	TimeoutMS               int
	WebhookToleranceSeconds int
}

// Client is a minimal PaymentIntents API client.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// CreateIntentInput is the request to open a payment intent.
type CreateIntentInput struct {
	Amount   string
	Currency string
	Metadata map[string]string
}

// IntentResult mirrors the fields of a payment intent we care about.
type IntentResult struct {
	IntentID     string
	ClientSecret string
	Status       string
	Amount       string
	Currency     string
	Raw          map[string]interface{}
}

// RefundInput is the request to refund part or all of an intent.
type RefundInput struct {
	IntentID string
	Amount   string
	Currency string
}

// RefundResult mirrors the fields of a refund object we care about.
type RefundResult struct {
	RefundID string
	IntentID string
	Amount   string
	Status   string
	Raw      map[string]interface{}
}

// WebhookEvent is a verified, parsed webhook payload.
type WebhookEvent struct {
	EventID        string
	Type           string
	IntentID       string
	TransactionID  string
	Amount         string
	AmountRefunded string
	Currency       string
	FailureReason  string
	Raw            map[string]interface{}
}

// NewClient validates the config and builds a client.
func NewClient(cfg Config) (*Client, error) {
	cfg.normalize()
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook_secret is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("%w: api_base_url is invalid", ErrConfigInvalid)
	}
	timeout := defaultTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Config) normalize() {
	c.SecretKey = strings.TrimSpace(c.SecretKey)
	c.WebhookSecret = strings.TrimSpace(c.WebhookSecret)
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.WebhookToleranceSeconds <= 0 {
		c.WebhookToleranceSeconds = defaultWebhookToleranceS
	}
}

// CreateIntent opens a payment intent for the given amount.
func (c *Client) CreateIntent(ctx context.Context, input CreateIntentInput) (*IntentResult, error) {
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrConfigInvalid)
	}
	minorAmount, err := ToMinorAmount(input.Amount, currency)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(minorAmount, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("automatic_payment_methods[enabled]", "true")
	for key, value := range input.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	raw, err := c.doFormRequest(ctx, http.MethodPost, "/v1/payment_intents", form, uuid.NewString())
	if err != nil {
		return nil, err
	}
	result := parseIntent(raw)
	if result.IntentID == "" {
		return nil, fmt.Errorf("%w: missing payment intent id", ErrResponseInvalid)
	}
	return result, nil
}

// RetrieveIntent fetches the current state of a payment intent.
func (c *Client) RetrieveIntent(ctx context.Context, intentID string) (*IntentResult, error) {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return nil, fmt.Errorf("%w: intent_id is required", ErrConfigInvalid)
	}
	path := fmt.Sprintf("/v1/payment_intents/%s", url.PathEscape(intentID))
	raw, err := c.doGetRequest(ctx, path)
	if err != nil {
		return nil, err
	}
	result := parseIntent(raw)
	if result.IntentID == "" {
		return nil, fmt.Errorf("%w: missing payment intent id", ErrResponseInvalid)
	}
	return result, nil
}

// CreateRefund refunds part or all of a succeeded intent.
func (c *Client) CreateRefund(ctx context.Context, input RefundInput) (*RefundResult, error) {
	intentID := strings.TrimSpace(input.IntentID)
	if intentID == "" {
		return nil, fmt.Errorf("%w: intent_id is required", ErrConfigInvalid)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))

	form := url.Values{}
	form.Set("payment_intent", intentID)
	if strings.TrimSpace(input.Amount) != "" {
		minorAmount, err := ToMinorAmount(input.Amount, currency)
		if err != nil {
			return nil, err
		}
		form.Set("amount", strconv.FormatInt(minorAmount, 10))
	}

	raw, err := c.doFormRequest(ctx, http.MethodPost, "/v1/refunds", form, uuid.NewString())
	if err != nil {
		return nil, err
	}
	result := &RefundResult{Raw: raw}
	result.RefundID = strings.TrimSpace(readString(raw, "id"))
	result.IntentID = strings.TrimSpace(readString(raw, "payment_intent"))
	result.Status = strings.TrimSpace(readString(raw, "status"))
	resultCurrency := strings.ToUpper(strings.TrimSpace(readString(raw, "currency")))
	if resultCurrency == "" {
		resultCurrency = currency
	}
	if amountMinor := readInt64(raw, "amount"); amountMinor > 0 && resultCurrency != "" {
		result.Amount = FromMinorAmount(amountMinor, resultCurrency)
	}
	if result.RefundID == "" {
		return nil, fmt.Errorf("%w: missing refund id", ErrResponseInvalid)
	}
	return result, nil
}

// VerifyWebhook checks the signature header against the raw body and
// parses the event. Any verification failure is a hard reject.
func (c *Client) VerifyWebhook(payload []byte, signatureHeader string, now time.Time) (*WebhookEvent, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: body is empty", ErrResponseInvalid)
	}
	if strings.TrimSpace(signatureHeader) == "" {
		return nil, fmt.Errorf("%w: Stripe-Signature is required", ErrSignatureInvalid)
	}
	if now.IsZero() {
		now = time.Now()
	}

	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}
	if c.cfg.WebhookToleranceSeconds > 0 {
		delta := math.Abs(float64(now.Unix() - timestamp))
		if delta > float64(c.cfg.WebhookToleranceSeconds) {
			return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrSignatureInvalid)
		}
	}

	expected := computeSignature(c.cfg.WebhookSecret, timestamp, payload)
	matched := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(strings.ToLower(sig)), []byte(expected)) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("%w: verify failed", ErrSignatureInvalid)
	}

	eventRaw, err := decodeRawMap(payload)
	if err != nil {
		return nil, err
	}
	eventType := strings.TrimSpace(readString(eventRaw, "type"))
	if eventType == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrResponseInvalid)
	}
	dataRaw, ok := eventRaw["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing data object", ErrResponseInvalid)
	}
	objectRaw, ok := dataRaw["object"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing event object", ErrResponseInvalid)
	}

	event := &WebhookEvent{
		EventID: strings.TrimSpace(readString(eventRaw, "id")),
		Type:    eventType,
		Raw:     eventRaw,
	}
	fillWebhookEvent(event, objectRaw)
	return event, nil
}

func fillWebhookEvent(event *WebhookEvent, objectRaw map[string]interface{}) {
	objectType := strings.TrimSpace(readString(objectRaw, "object"))
	event.Currency = strings.ToUpper(strings.TrimSpace(readString(objectRaw, "currency")))

	switch objectType {
	case "payment_intent":
		event.IntentID = strings.TrimSpace(readString(objectRaw, "id"))
		event.TransactionID = strings.TrimSpace(readString(objectRaw, "latest_charge"))
		amountMinor := readInt64(objectRaw, "amount_received")
		if amountMinor <= 0 {
			amountMinor = readInt64(objectRaw, "amount")
		}
		if amountMinor > 0 && event.Currency != "" {
			event.Amount = FromMinorAmount(amountMinor, event.Currency)
		}
		if lastError := readMap(objectRaw, "last_payment_error"); lastError != nil {
			event.FailureReason = strings.TrimSpace(readString(lastError, "message"))
		}
	case "charge":
		event.TransactionID = strings.TrimSpace(readString(objectRaw, "id"))
		event.IntentID = strings.TrimSpace(readString(objectRaw, "payment_intent"))
		if amountMinor := readInt64(objectRaw, "amount"); amountMinor > 0 && event.Currency != "" {
			event.Amount = FromMinorAmount(amountMinor, event.Currency)
		}
		// amount_refunded is the gateway's cumulative refund total.
		if refundedMinor := readInt64(objectRaw, "amount_refunded"); refundedMinor >= 0 && event.Currency != "" {
			event.AmountRefunded = FromMinorAmount(refundedMinor, event.Currency)
		}
		event.FailureReason = strings.TrimSpace(readString(objectRaw, "failure_message"))
	default:
		event.IntentID = strings.TrimSpace(readString(objectRaw, "id"))
	}
}

// ToMinorAmount converts a decimal amount string to gateway minor units.
func ToMinorAmount(amount string, currency string) (int64, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("%w: amount is invalid", ErrConfigInvalid)
	}
	if parsed.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	scale := currencyScale(currency)
	minor := parsed.Shift(int32(scale)).Round(0)
	return minor.IntPart(), nil
}

// FromMinorAmount converts gateway minor units to a decimal string.
func FromMinorAmount(minor int64, currency string) string {
	scale := currencyScale(currency)
	return decimal.NewFromInt(minor).Shift(int32(-scale)).StringFixed(int32(scale))
}

func currencyScale(currency string) int {
	upper := strings.ToUpper(strings.TrimSpace(currency))
	if _, ok := zeroDecimalCurrencies[upper]; ok {
		return 0
	}
	return 2
}

func parseIntent(raw map[string]interface{}) *IntentResult {
	result := &IntentResult{Raw: raw}
	result.IntentID = strings.TrimSpace(readString(raw, "id"))
	result.ClientSecret = strings.TrimSpace(readString(raw, "client_secret"))
	result.Status = strings.TrimSpace(readString(raw, "status"))
	result.Currency = strings.ToUpper(strings.TrimSpace(readString(raw, "currency")))
	if amountMinor := readInt64(raw, "amount"); amountMinor > 0 && result.Currency != "" {
		result.Amount = FromMinorAmount(amountMinor, result.Currency)
	}
	return result
}

func (c *Client) doFormRequest(ctx context.Context, method, path string, form url.Values, idempotencyKey string) (map[string]interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.cfg.APIBaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	return c.doRequest(req)
}

func (c *Client) doGetRequest(ctx context.Context, path string) (map[string]interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.cfg.APIBaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	return c.doRequest(req)
}

func (c *Client) doRequest(req *http.Request) (map[string]interface{}, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrResponseInvalid, resp.StatusCode, gatewayErrorMessage(body))
	}
	return decodeRawMap(body)
}

func gatewayErrorMessage(body []byte) string {
	raw, err := decodeRawMap(body)
	if err != nil {
		return "unreadable error body"
	}
	errObj := readMap(raw, "error")
	if errObj == nil {
		return "unknown error"
	}
	message := strings.TrimSpace(readString(errObj, "message"))
	if message == "" {
		return strings.TrimSpace(readString(errObj, "type"))
	}
	return message
}

func decodeRawMap(body []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, nil
}

func computeSignature(secret string, timestamp int64, body []byte) string {
	payload := strconv.FormatInt(timestamp, 10) + "." + string(body)
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write([]byte(payload))
	return strings.ToLower(hex.EncodeToString(h.Sum(nil)))
}

func parseSignatureHeader(signatureHeader string) (int64, []string, error) {
	timestamp := int64(0)
	signatures := make([]string, 0)
	parts := strings.Split(signatureHeader, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil || parsed <= 0 {
				return 0, nil, fmt.Errorf("%w: invalid timestamp", ErrSignatureInvalid)
			}
			timestamp = parsed
		case "v1":
			if value != "" {
				signatures = append(signatures, strings.ToLower(value))
			}
		}
	}
	if timestamp <= 0 {
		return 0, nil, fmt.Errorf("%w: timestamp is missing", ErrSignatureInvalid)
	}
	if len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: v1 signature is missing", ErrSignatureInvalid)
	}
	return timestamp, signatures, nil
}

func readString(raw map[string]interface{}, key string) string {
	if raw == nil || strings.TrimSpace(key) == "" {
		return ""
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return strings.TrimSpace(typed.String())
	case float64:
		return strconv.FormatInt(int64(typed), 10)
	case int64:
		return strconv.FormatInt(typed, 10)
	case int:
		return strconv.Itoa(typed)
	default:
		return ""
	}
}

func readMap(raw map[string]interface{}, key string) map[string]interface{} {
	if raw == nil || strings.TrimSpace(key) == "" {
		return nil
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return nil
	}
	mapped, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	return mapped
}

func readInt64(raw map[string]interface{}, key string) int64 {
	if raw == nil || strings.TrimSpace(key) == "" {
		return 0
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return 0
	}
	switch typed := value.(type) {
	case int64:
		return typed
	case int:
		return int64(typed)
	case float64:
		return int64(typed)
	case json.Number:
		parsed, err := typed.Int64()
		if err == nil {
			return parsed
		}
		floatVal, err := typed.Float64()
		if err != nil {
			return 0
		}
		return int64(floatVal)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
