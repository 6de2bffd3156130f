package database

import (
	"fmt"

	"modernshop-api/internal/models"
	"modernshop-api/pkg/logging"
)

// CreateTransaction records a new ledger entry for an accepted STK push
func CreateTransaction(tx *models.MpesaTransaction) error {
	return DB.Create(tx).Error
}

// GetTransactionByCheckoutID looks up the ledger entry for a checkout request ID
func GetTransactionByCheckoutID(checkoutRequestID string) (*models.MpesaTransaction, error) {
	var tx models.MpesaTransaction
	err := DB.Where("checkout_request_id = ?", checkoutRequestID).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// UpdateTransactionResult applies a terminal provider outcome to the ledger.
// Re-applying the same outcome is a no-op; moving a terminal entry back to
// pending is rejected.
func UpdateTransactionResult(checkoutRequestID string, resultCode int, resultDesc, receiptNumber, rawPayload string) error {
	tx, err := GetTransactionByCheckoutID(checkoutRequestID)
	if err != nil {
		return err
	}

	status := models.TxStatusFailed
	if resultCode == 0 {
		status = models.TxStatusSuccess
	}

	// Re-delivery of an already applied outcome never overwrites stored
	// details, but it may backfill ones the first writer lacked: when the
	// poller persists success first its status query carries no receipt
	// number, and the callback must still land it.
	if tx.Status == status {
		backfill := map[string]interface{}{}
		if tx.MpesaReceiptNumber == "" && receiptNumber != "" {
			backfill["mpesa_receipt_number"] = receiptNumber
		}
		if tx.CallbackPayload == "" && rawPayload != "" {
			backfill["callback_payload"] = rawPayload
		}
		if len(backfill) == 0 {
			return nil
		}
		return DB.Model(&models.MpesaTransaction{}).
			Where("checkout_request_id = ?", checkoutRequestID).
			Updates(backfill).Error
	}

	if !tx.CanTransitionTo(status) {
		logging.Warnf("Ignoring transaction status change %s -> %s for checkout %s",
			tx.Status, status, checkoutRequestID)
		return nil
	}

	updates := map[string]interface{}{
		"status":               status,
		"result_code":          resultCode,
		"result_desc":          resultDesc,
		"mpesa_receipt_number": receiptNumber,
	}
	if rawPayload != "" {
		updates["callback_payload"] = rawPayload
	}

	return DB.Model(&models.MpesaTransaction{}).
		Where("checkout_request_id = ?", checkoutRequestID).
		Updates(updates).Error
}

// LinkTransactionToOrder associates a ledger entry with an order and marks it
// settled. Used by the client link call, which only fires after the client
// observed a successful payment.
func LinkTransactionToOrder(checkoutRequestID, orderID string) error {
	tx, err := GetTransactionByCheckoutID(checkoutRequestID)
	if err != nil {
		return fmt.Errorf("transaction not found for checkout %s: %w", checkoutRequestID, err)
	}

	if !tx.CanTransitionTo(models.TxStatusSuccess) {
		return fmt.Errorf("transaction %s is already %s and cannot be marked success",
			checkoutRequestID, tx.Status)
	}

	return DB.Model(&models.MpesaTransaction{}).
		Where("checkout_request_id = ?", checkoutRequestID).
		Updates(map[string]interface{}{
			"order_id": orderID,
			"status":   models.TxStatusSuccess,
		}).Error
}
