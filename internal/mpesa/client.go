package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"modernshop-api/internal/config"
)

// Client is the Daraja STK push client. The live implementation talks to the
// provider; the mock implementation synthesizes responses for testing.
type Client interface {
	// STKPush asks the provider to prompt the payer's phone for authorization
	STKPush(ctx context.Context, phoneNumber string, amount float64, orderID string) (*STKPushResponse, error)
	// QueryStatus asks the provider for the outcome of a checkout request
	QueryStatus(ctx context.Context, checkoutRequestID string) (*StatusResponse, error)
}

// STKPushResponse is the Daraja response to a push request
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// StatusResponse is the Daraja response to a status query. ResultCode "0"
// means settled; other codes are failures reported by the provider.
type StatusResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResultCode          string `json:"ResultCode"`
	ResultDesc          string `json:"ResultDesc"`
}

// NewClient returns the mock client when MPESA_MOCK is enabled, otherwise the
// live Daraja client
func NewClient() Client {
	if config.AppConfig.MpesaMock {
		return NewMockClient()
	}
	return NewLiveClient()
}

// LiveClient is the production Daraja client
type LiveClient struct {
	baseURL     string
	shortCode   string
	passKey     string
	callbackURL string
	httpClient  *http.Client
	tokens      *TokenCache
}

// NewLiveClient builds a live client from the application configuration
func NewLiveClient() *LiveClient {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	cfg := config.AppConfig
	return &LiveClient{
		baseURL:     cfg.DarajaBaseURL,
		shortCode:   cfg.ShortCode,
		passKey:     cfg.PassKey,
		callbackURL: cfg.CallbackURL,
		httpClient:  httpClient,
		tokens:      NewTokenCache(cfg.DarajaBaseURL, cfg.ConsumerKey, cfg.ConsumerSecret, httpClient),
	}
}

// STKPush sends the push request. The amount is rounded up to whole currency
// units as Daraja only accepts integers.
func (c *LiveClient) STKPush(ctx context.Context, phoneNumber string, amount float64, orderID string) (*STKPushResponse, error) {
	token, err := c.tokens.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := generateTimestamp(time.Now())
	phone := FormatPhoneNumber(phoneNumber)

	payload := map[string]interface{}{
		"BusinessShortCode": c.shortCode,
		"Password":          generatePassword(c.shortCode, c.passKey, timestamp),
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            int(math.Ceil(amount)),
		"PartyA":            phone,
		"PartyB":            c.shortCode,
		"PhoneNumber":       phone,
		"CallBackURL":       c.callbackURL,
		"AccountReference":  "ModernShop-" + orderID,
		"TransactionDesc":   "Payment for Order #" + orderID,
	}

	var result STKPushResponse
	if err := c.post(ctx, "/mpesa/stkpush/v1/processrequest", token, payload, &result); err != nil {
		return nil, fmt.Errorf("STK push failed: %w", err)
	}
	return &result, nil
}

// QueryStatus performs the STK push status query
func (c *LiveClient) QueryStatus(ctx context.Context, checkoutRequestID string) (*StatusResponse, error) {
	token, err := c.tokens.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := generateTimestamp(time.Now())
	payload := map[string]interface{}{
		"BusinessShortCode": c.shortCode,
		"Password":          generatePassword(c.shortCode, c.passKey, timestamp),
		"Timestamp":         timestamp,
		"CheckoutRequestID": checkoutRequestID,
	}

	var result StatusResponse
	if err := c.post(ctx, "/mpesa/stkpushquery/v1/query", token, payload, &result); err != nil {
		return nil, fmt.Errorf("STK status query failed: %w", err)
	}
	return &result, nil
}

// post sends an authenticated JSON POST and decodes the response into out
func (c *LiveClient) post(ctx context.Context, path, token string, payload interface{}, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d - %s", resp.StatusCode, truncate(providerErrorMessage(body), 1000))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse provider response: %s", truncate(string(body), 1000))
	}
	return nil
}

// providerErrorMessage extracts the Daraja error message when the body is
// JSON, falling back to the raw text
func providerErrorMessage(body []byte) string {
	var parsed struct {
		ErrorMessage string `json:"errorMessage"`
		ErrorCode    string `json:"errorCode"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.ErrorMessage != "" {
		return parsed.ErrorMessage
	}
	return string(body)
}

// FormatPhoneNumber normalizes a phone number to the 254XXXXXXXXX format
// Daraja requires: spaces stripped, leading + removed, leading 0 replaced by
// the country code.
func FormatPhoneNumber(phone string) string {
	p := strings.ReplaceAll(phone, " ", "")
	p = strings.TrimPrefix(p, "+")
	if strings.HasPrefix(p, "0") {
		p = "254" + p[1:]
	}
	if !strings.HasPrefix(p, "254") {
		p = "254" + p
	}
	return p
}

// generateTimestamp renders the Daraja timestamp format YYYYMMDDHHmmss
func generateTimestamp(t time.Time) string {
	return t.Format("20060102150405")
}

// generatePassword derives the request password per the Daraja scheme:
// base64(shortcode + passkey + timestamp)
func generatePassword(shortCode, passKey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passKey + timestamp))
}
