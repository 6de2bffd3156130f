package database

import (
	"testing"

	"modernshop-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateCheckoutIDRejected(t *testing.T) {
	mustCreateTransaction(t, "CK-DUP-1")

	err := CreateTransaction(&models.MpesaTransaction{
		CheckoutRequestID: "CK-DUP-1",
		PhoneNumber:       "254712345678",
		Amount:            150,
		Status:            models.TxStatusPending,
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}

func TestUpdateTransactionResultSettlesPendingEntry(t *testing.T) {
	mustCreateTransaction(t, "CK-SETTLE-1")

	err := UpdateTransactionResult("CK-SETTLE-1", 0, "Success", "NLJ7RT61SV", `{"raw":true}`)
	require.NoError(t, err)

	tx, err := GetTransactionByCheckoutID("CK-SETTLE-1")
	require.NoError(t, err)
	assert.Equal(t, models.TxStatusSuccess, tx.Status)
	require.NotNil(t, tx.ResultCode)
	assert.Equal(t, 0, *tx.ResultCode)
	assert.Equal(t, "NLJ7RT61SV", tx.MpesaReceiptNumber)
	assert.Equal(t, `{"raw":true}`, tx.CallbackPayload)
}

func TestUpdateTransactionResultRedeliveryIsNoOp(t *testing.T) {
	mustCreateTransaction(t, "CK-REDELIVER-1")
	require.NoError(t, UpdateTransactionResult("CK-REDELIVER-1", 0, "Success", "RCPT-1", ""))

	// A second delivery of the same outcome without the receipt number
	// must not erase the stored one
	require.NoError(t, UpdateTransactionResult("CK-REDELIVER-1", 0, "Success", "", ""))

	tx, err := GetTransactionByCheckoutID("CK-REDELIVER-1")
	require.NoError(t, err)
	assert.Equal(t, "RCPT-1", tx.MpesaReceiptNumber)
}

func TestUpdateTransactionResultBackfillsLateCallbackDetails(t *testing.T) {
	mustCreateTransaction(t, "CK-BACKFILL-1")

	// The status poller wins the race: it settles the entry but its query
	// response carries no receipt number or payload
	require.NoError(t, UpdateTransactionResult("CK-BACKFILL-1", 0, "The service request is processed successfully.", "", ""))

	// The callback arrives second with the authoritative details
	require.NoError(t, UpdateTransactionResult("CK-BACKFILL-1", 0, "The service request is processed successfully.", "NLJ7RT61SV", `{"Body":{}}`))

	tx, err := GetTransactionByCheckoutID("CK-BACKFILL-1")
	require.NoError(t, err)
	assert.Equal(t, models.TxStatusSuccess, tx.Status)
	assert.Equal(t, "NLJ7RT61SV", tx.MpesaReceiptNumber)
	assert.Equal(t, `{"Body":{}}`, tx.CallbackPayload)
}

func TestUpdateTransactionResultTerminalIsFrozen(t *testing.T) {
	mustCreateTransaction(t, "CK-FROZEN-1")
	require.NoError(t, UpdateTransactionResult("CK-FROZEN-1", 0, "Success", "RCPT-2", ""))

	// A conflicting failure outcome after success is ignored
	require.NoError(t, UpdateTransactionResult("CK-FROZEN-1", 1032, "Request cancelled by user", "", ""))

	tx, err := GetTransactionByCheckoutID("CK-FROZEN-1")
	require.NoError(t, err)
	assert.Equal(t, models.TxStatusSuccess, tx.Status)
	assert.Equal(t, "RCPT-2", tx.MpesaReceiptNumber)
}

func TestUpdateTransactionResultUnknownCheckout(t *testing.T) {
	err := UpdateTransactionResult("CK-MISSING", 0, "Success", "", "")
	require.Error(t, err)
}

func TestLinkTransactionToOrder(t *testing.T) {
	mustCreateTransaction(t, "CK-LINK-1")

	require.NoError(t, LinkTransactionToOrder("CK-LINK-1", "42"))

	tx, err := GetTransactionByCheckoutID("CK-LINK-1")
	require.NoError(t, err)
	assert.Equal(t, "42", tx.OrderID)
	assert.Equal(t, models.TxStatusSuccess, tx.Status)
}

func TestLinkTransactionRejectsFailedEntry(t *testing.T) {
	mustCreateTransaction(t, "CK-LINK-FAILED")
	require.NoError(t, UpdateTransactionResult("CK-LINK-FAILED", 1032, "Request cancelled by user", "", ""))

	err := LinkTransactionToOrder("CK-LINK-FAILED", "43")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already failed")
}
