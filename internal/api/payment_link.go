package api

import (
	"net/http"

	"modernshop-api/internal/middleware"
	"modernshop-api/internal/services"
	"modernshop-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// LinkPaymentRequest connects a settled transaction to an order created
// client-side after payment success
type LinkPaymentRequest struct {
	CheckoutRequestID string `json:"checkoutRequestId" binding:"required"`
	OrderID           string `json:"orderId" binding:"required"`
}

// LinkPayment links the ledger entry to its order and runs reconciliation:
// one payment, one receipt, order COMPLETED, best-effort receipt email.
// Side-effect failures are swallowed; only the order lookup/update and the
// ledger link itself are fatal.
// POST /api/payment/link
func LinkPayment(c *gin.Context) {
	var req LinkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkoutRequestId and orderId required"})
		return
	}

	reconcileService := services.NewReconcileService()
	result, err := reconcileService.LinkAndReconcile(req.CheckoutRequestID, req.OrderID, middleware.UserEmail(c))
	if err != nil {
		logging.Errorf("Payment link failed - checkout: %s, order: %s, error: %v",
			req.CheckoutRequestID, req.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"paymentId": result.PaymentID,
		"receiptId": result.ReceiptID,
	})
}
