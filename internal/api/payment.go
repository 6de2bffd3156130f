package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"modernshop-api/internal/services"
	"modernshop-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// InitiatePaymentRequest represents the STK push initiation request
type InitiatePaymentRequest struct {
	PhoneNumber string  `json:"phoneNumber" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	OrderID     string  `json:"orderId" binding:"required"`
}

// InitiatePayment sends the push request to the provider and records the
// pending ledger entry
// POST /api/payment/initiate
func InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	redisService := services.NewRedisService()
	limited, err := redisService.CheckInitiateRateLimit(req.PhoneNumber)
	if err != nil {
		logging.Warnf("Rate limit check failed: %v", err)
	}
	if limited {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before retrying this phone number"})
		return
	}

	paymentService := services.NewPaymentService()
	res, err := paymentService.Initiate(c.Request.Context(), req.PhoneNumber, req.Amount, req.OrderID)
	if err != nil {
		logging.Errorf("STK push initiation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := redisService.SetInitiateRateLimit(req.PhoneNumber); err != nil {
		logging.Warnf("Failed to set rate limit: %v", err)
	}

	// Converge the ledger even if the browser goes away before polling ends
	go watchSettlement(paymentService, res.CheckoutRequestID)

	c.JSON(http.StatusOK, res)
}

// watchSettlement runs the bounded settlement poll in the background
func watchSettlement(paymentService *services.PaymentService, checkoutRequestID string) {
	budget := paymentService.PollInterval*time.Duration(paymentService.MaxAttempts) + 30*time.Second
	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()

	res, err := paymentService.WaitForSettlement(ctx, checkoutRequestID)
	switch {
	case errors.Is(err, services.ErrPollTimeout):
		logging.Warnf("Settlement watch timed out for checkout %s", checkoutRequestID)
	case err != nil:
		logging.Warnf("Settlement watch stopped for checkout %s: %v", checkoutRequestID, err)
	default:
		logging.Infof("Settlement watch finished for checkout %s - result: %s", checkoutRequestID, res.ResultCode)
	}
}

// PaymentStatusRequest represents the status poll request
type PaymentStatusRequest struct {
	CheckoutRequestID string `json:"checkoutRequestId" binding:"required"`
}

// PaymentStatus performs one provider status query with a ledger fallback.
// Clients call this on an interval until a non-pending result arrives.
// POST /api/payment/status
func PaymentStatus(c *gin.Context) {
	var req PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing checkoutRequestId"})
		return
	}

	paymentService := services.NewPaymentService()
	res, err := paymentService.CheckStatus(c.Request.Context(), req.CheckoutRequestID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, res)
}
