package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"modernshop-api/internal/database"
	"modernshop-api/internal/models"
	"modernshop-api/pkg/logging"

	"gorm.io/gorm"
)

// StepOutcome records how one reconciliation side effect went
type StepOutcome string

const (
	StepCreated StepOutcome = "created"
	StepUpdated StepOutcome = "updated"
	StepExists  StepOutcome = "exists"
	StepSkipped StepOutcome = "skipped"
	StepFailed  StepOutcome = "failed"
	StepSent    StepOutcome = "sent"
)

// ReconcileResult reports the per-step outcomes of one reconciliation run.
// Side-effect failures are recorded here instead of aborting the run.
type ReconcileResult struct {
	PaymentID uint        `json:"payment_id"`
	ReceiptID uint        `json:"receipt_id"`
	Payment   StepOutcome `json:"payment"`
	Receipt   StepOutcome `json:"receipt"`
	Order     StepOutcome `json:"order"`
	Email     StepOutcome `json:"email"`
}

// ReconcileService turns a successful payment outcome into exactly one
// Payment and one Receipt per order, a COMPLETED order, and a best-effort
// receipt notification. Safe to invoke any number of times for the same
// order: redundant triggers from the callback, the poller and the link call
// all converge on the same records.
type ReconcileService struct {
	mailer *MailerService
}

// NewReconcileService creates a reconcile service
func NewReconcileService() *ReconcileService {
	return &ReconcileService{mailer: NewMailerService()}
}

// LinkAndReconcile associates a ledger entry with an order and reconciles.
// This is the client-driven path, used when the order was created only after
// the client observed payment success.
func (s *ReconcileService) LinkAndReconcile(checkoutRequestID, orderID, fallbackEmail string) (*ReconcileResult, error) {
	if err := database.LinkTransactionToOrder(checkoutRequestID, orderID); err != nil {
		return nil, err
	}

	tx, err := database.GetTransactionByCheckoutID(checkoutRequestID)
	if err != nil {
		return nil, fmt.Errorf("transaction not found after link: %w", err)
	}

	return s.Reconcile(orderID, tx, fallbackEmail)
}

// Reconcile runs the idempotent settlement chain for an order. The order
// lookup and the COMPLETED transition propagate errors; the payment, receipt
// and email steps are each best-effort and only recorded in the result.
func (s *ReconcileService) Reconcile(orderID string, tx *models.MpesaTransaction, fallbackEmail string) (*ReconcileResult, error) {
	order, err := database.GetOrderByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s not found: %w", orderID, err)
	}

	result := &ReconcileResult{}

	s.upsertPayment(orderID, tx, result)
	s.upsertReceipt(orderID, order, tx, result)

	if err := database.UpdateOrderStatus(orderID, models.OrderStatusCompleted); err != nil {
		result.Order = StepFailed
		return result, fmt.Errorf("failed to mark order %s completed: %w", orderID, err)
	}
	result.Order = StepUpdated

	s.sendReceiptEmail(order, tx, fallbackEmail, result)

	logging.Infof("Reconciled order %s - payment: %s, receipt: %s, email: %s",
		orderID, result.Payment, result.Receipt, result.Email)
	return result, nil
}

// upsertPayment finds or creates the single payment row for the
// (order, provider) pair. A unique-key conflict from a concurrent insert is
// resolved by re-fetching the winner's row.
func (s *ReconcileService) upsertPayment(orderID string, tx *models.MpesaTransaction, result *ReconcileResult) {
	existing, err := database.GetPaymentByOrderAndProvider(orderID, "mpesa")
	if err == nil {
		result.PaymentID = existing.ID
		result.Payment = StepUpdated
		updates := map[string]interface{}{"status": models.PaymentStatusSuccess}
		if tx.CallbackPayload != "" {
			updates["raw_response"] = tx.CallbackPayload
		}
		if err := database.UpdatePayment(existing.ID, updates); err != nil {
			logging.Warnf("Failed to update payment %d for order %s: %v", existing.ID, orderID, err)
			result.Payment = StepFailed
		}
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Warnf("Payment lookup failed for order %s: %v", orderID, err)
		result.Payment = StepFailed
		return
	}

	providerPaymentID := tx.MpesaReceiptNumber
	if providerPaymentID == "" {
		providerPaymentID = tx.CheckoutRequestID
	}

	payment := &models.Payment{
		OrderID:           orderID,
		Provider:          "mpesa",
		ProviderPaymentID: providerPaymentID,
		Amount:            tx.Amount,
		Currency:          settlementCurrency(),
		Status:            models.PaymentStatusSuccess,
		RawResponse:       tx.CallbackPayload,
	}

	err = database.CreatePayment(payment)
	switch {
	case err == nil:
		result.PaymentID = payment.ID
		result.Payment = StepCreated
	case database.IsDuplicateKey(err):
		// Lost the race against a concurrent reconcile - already done
		if winner, ferr := database.GetPaymentByOrderAndProvider(orderID, "mpesa"); ferr == nil {
			result.PaymentID = winner.ID
		}
		result.Payment = StepExists
	default:
		logging.Warnf("Failed to create payment for order %s: %v", orderID, err)
		result.Payment = StepFailed
	}
}

// upsertReceipt creates the single receipt row for the order if absent
func (s *ReconcileService) upsertReceipt(orderID string, order *models.Order, tx *models.MpesaTransaction, result *ReconcileResult) {
	if existing, err := database.GetReceiptByOrder(orderID); err == nil {
		result.ReceiptID = existing.ID
		result.Receipt = StepExists
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Warnf("Receipt lookup failed for order %s: %v", orderID, err)
		result.Receipt = StepFailed
		return
	}

	amount := tx.Amount
	if amount == 0 {
		amount = order.Total
	}

	metadata, _ := json.Marshal(map[string]string{"checkoutRequestId": tx.CheckoutRequestID})
	receipt := &models.Receipt{
		OrderID:       orderID,
		PaymentID:     result.PaymentID,
		MpesaTxID:     tx.ID,
		ReceiptNumber: tx.MpesaReceiptNumber,
		Amount:        amount,
		Currency:      settlementCurrency(),
		Metadata:      string(metadata),
	}

	err := database.CreateReceipt(receipt)
	switch {
	case err == nil:
		result.ReceiptID = receipt.ID
		result.Receipt = StepCreated
	case database.IsDuplicateKey(err):
		if winner, ferr := database.GetReceiptByOrder(orderID); ferr == nil {
			result.ReceiptID = winner.ID
		}
		result.Receipt = StepExists
	default:
		logging.Warnf("Failed to create receipt for order %s: %v", orderID, err)
		result.Receipt = StepFailed
	}
}

// resolveRecipient finds the receipt destination. Resolution order: order
// email, profile by user id, profile by payer phone, caller-supplied fallback.
// Returns an empty address when nothing resolves.
func (s *ReconcileService) resolveRecipient(order *models.Order, tx *models.MpesaTransaction, fallbackEmail string) (string, string) {
	toEmail := order.UserEmail
	customerName := "Customer"

	if order.UserID != "" {
		if profile, err := database.GetProfileByID(order.UserID); err == nil {
			if toEmail == "" {
				toEmail = profile.Email
			}
			if profile.Name != "" {
				customerName = profile.Name
			}
		}
	}

	if toEmail == "" && tx.PhoneNumber != "" {
		if profile, err := database.GetProfileByPhone(tx.PhoneNumber); err == nil {
			toEmail = profile.Email
			if profile.Name != "" {
				customerName = profile.Name
			}
		}
	}

	if toEmail == "" && fallbackEmail != "" {
		toEmail = fallbackEmail
		if customerName == "Customer" {
			customerName = strings.SplitN(fallbackEmail, "@", 2)[0]
		}
	}

	return toEmail, customerName
}

// sendReceiptEmail resolves a destination address and dispatches the receipt
// notification. No address or no mailer config just skips the step - purchase
// completion never depends on deliverability.
func (s *ReconcileService) sendReceiptEmail(order *models.Order, tx *models.MpesaTransaction, fallbackEmail string, result *ReconcileResult) {
	toEmail, customerName := s.resolveRecipient(order, tx, fallbackEmail)

	if toEmail == "" {
		logging.Warnf("No recipient email resolved for order %d, receipt email not sent", order.ID)
		result.Email = StepSkipped
		return
	}

	if !s.mailer.Configured() {
		logging.Warnf("No email channel configured, receipt email not sent")
		result.Email = StepSkipped
		return
	}

	if err := s.mailer.SendReceiptEmail(order, customerName, toEmail); err != nil {
		logging.Errorf("Failed to send receipt email for order %d: %v", order.ID, err)
		result.Email = StepFailed
		return
	}
	result.Email = StepSent
}
