package api

import (
	"encoding/base64"
	"io"
	"net/http"
	"time"

	"modernshop-api/internal/config"

	"github.com/gin-gonic/gin"
)

// DebugToken inspects the raw Daraja token endpoint response. Development
// only - helps diagnose WAF/DNS/network issues with the provider.
// GET /api/payment/debug-token
func DebugToken(c *gin.Context) {
	if !config.IsDebugMode() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	cfg := config.AppConfig
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing MPESA_CONSUMER_KEY or MPESA_CONSUMER_SECRET"})
		return
	}

	url := cfg.DarajaBaseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, url, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	auth := base64.StdEncoding.EncodeToString([]byte(cfg.ConsumerKey + ":" + cfg.ConsumerSecret))
	req.Header.Set("Authorization", "Basic "+auth)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	c.JSON(http.StatusOK, gin.H{
		"url":    url,
		"status": resp.StatusCode,
		"body":   string(body),
	})
}
