package api

import (
	"encoding/json"
	"net/http"

	"modernshop-api/internal/database"
	"modernshop-api/internal/mpesa"
	"modernshop-api/internal/services"
	"modernshop-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// MpesaCallback receives the provider webhook with the authoritative payment
// result. It always acks with HTTP 200 and {ResultCode, ResultDesc}: a
// transport error would make the provider retry aggressively. Each processing
// step is best-effort; internal failures ack ResultCode 1 and are otherwise
// swallowed.
// POST /api/payment/callback
func MpesaCallback(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusOK, gin.H{"ResultCode": 1, "ResultDesc": "Empty request body"})
		return
	}

	// Audit trail first, before any interpretation
	if err := database.LogWebhook("mpesa", "stk_callback", string(body)); err != nil {
		logging.Errorf("Failed to log webhook payload: %v", err)
	}

	var envelope mpesa.CallbackEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		logging.Errorf("Failed to parse callback body: %v", err)
		c.JSON(http.StatusOK, gin.H{"ResultCode": 1, "ResultDesc": "Invalid callback format"})
		return
	}

	cb := envelope.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		c.JSON(http.StatusOK, gin.H{"ResultCode": 1, "ResultDesc": "Missing CheckoutRequestID"})
		return
	}

	logging.Infof("M-Pesa callback received - checkout: %s, merchant: %s, result: %d (%s)",
		cb.CheckoutRequestID, cb.MerchantRequestID, cb.ResultCode, cb.ResultDesc)

	redisService := services.NewRedisService()
	duplicate, err := redisService.MarkCallbackProcessed(cb.CheckoutRequestID, cb.ResultCode)
	if err != nil {
		logging.Warnf("Callback dedup check failed: %v", err)
	}
	if duplicate {
		logging.Infof("Duplicate callback ignored - checkout: %s", cb.CheckoutRequestID)
		c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
		return
	}

	receiptNumber := ""
	if cb.ResultCode == 0 && cb.CallbackMetadata != nil {
		receiptNumber = cb.CallbackMetadata.ReceiptNumber()
		logging.Infof("Payment successful - amount: %.2f, receipt: %s, phone: %s",
			cb.CallbackMetadata.Amount(), receiptNumber, cb.CallbackMetadata.PhoneNumber())
	}

	ok := true
	if err := database.UpdateTransactionResult(cb.CheckoutRequestID, cb.ResultCode, cb.ResultDesc, receiptNumber, string(body)); err != nil {
		logging.Errorf("Failed to update ledger for checkout %s: %v", cb.CheckoutRequestID, err)
		ok = false
	}

	// Reconcile only when a prior link call already associated an order.
	// Otherwise the client's link request will drive reconciliation later -
	// the callback may legitimately arrive before the order exists.
	if cb.ResultCode == 0 {
		if tx, err := database.GetTransactionByCheckoutID(cb.CheckoutRequestID); err == nil && tx.OrderID != "" {
			reconcileService := services.NewReconcileService()
			if _, err := reconcileService.Reconcile(tx.OrderID, tx, ""); err != nil {
				logging.Errorf("Callback-driven reconcile failed for order %s: %v", tx.OrderID, err)
				ok = false
			}
		}
	}

	if !ok {
		// Release the dedup claim so the provider retry gets reprocessed
		if err := redisService.UnmarkCallbackProcessed(cb.CheckoutRequestID, cb.ResultCode); err != nil {
			logging.Warnf("Failed to release callback dedup key for checkout %s: %v", cb.CheckoutRequestID, err)
		}
		c.JSON(http.StatusOK, gin.H{"ResultCode": 1, "ResultDesc": "Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}
