package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// CredentialError reports a failed client-credential exchange with Daraja
type CredentialError struct {
	Status int
	Body   string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential exchange failed: status %d - %s", e.Status, truncate(e.Body, 1000))
}

// TokenCache obtains and caches the Daraja bearer token. The cached token is
// reused until its provider-declared expiry, less a 60 second safety margin
// (never below 60 seconds). Safe for concurrent use.
type TokenCache struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time

	now func() time.Time
}

// NewTokenCache creates a token cache for the given Daraja credentials
func NewTokenCache(baseURL, consumerKey, consumerSecret string, httpClient *http.Client) *TokenCache {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TokenCache{
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient:     httpClient,
		now:            time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// GetAccessToken returns a valid bearer token, exchanging credentials only
// when the cached token has expired. No retry here - callers decide.
func (tc *TokenCache) GetAccessToken(ctx context.Context) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.token != "" && tc.now().Before(tc.expiry) {
		return tc.token, nil
	}

	if tc.consumerKey == "" || tc.consumerSecret == "" {
		return "", fmt.Errorf("missing MPESA_CONSUMER_KEY or MPESA_CONSUMER_SECRET")
	}

	url := tc.baseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(tc.consumerKey + ":" + tc.consumerSecret))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("credential exchange failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &CredentialError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("failed to parse token response: %s", truncate(string(body), 1000))
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	// Daraja returns expires_in in seconds, typically "3599"
	expiresIn := 3500
	if secs, err := parseSeconds(tr.ExpiresIn); err == nil && secs > 0 {
		expiresIn = secs
	}
	margin := expiresIn - 60
	if margin < 60 {
		margin = 60
	}

	tc.token = tr.AccessToken
	tc.expiry = tc.now().Add(time.Duration(margin) * time.Second)
	return tc.token, nil
}

func parseSeconds(s string) (int, error) {
	var secs int
	_, err := fmt.Sscanf(s, "%d", &secs)
	return secs, err
}

// truncate caps s at n bytes to keep provider bodies out of logs and errors
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
