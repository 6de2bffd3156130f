package services

import (
	"sync"
	"testing"

	"modernshop-api/internal/database"
	"modernshop-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countPayments(t *testing.T, orderID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.DB.Model(&models.Payment{}).Where("order_id = ?", orderID).Count(&n).Error)
	return n
}

func countReceipts(t *testing.T, orderID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.DB.Model(&models.Receipt{}).Where("order_id = ?", orderID).Count(&n).Error)
	return n
}

func TestReconcileCreatesPaymentReceiptAndCompletesOrder(t *testing.T) {
	orderID, order := createTestOrder(t, "buyer@example.com")
	tx := createSettledTransaction(t, "CK-REC-1", orderID, order.Total)

	svc := NewReconcileService()
	result, err := svc.Reconcile(orderID, tx, "")
	require.NoError(t, err)

	assert.Equal(t, StepCreated, result.Payment)
	assert.Equal(t, StepCreated, result.Receipt)
	assert.Equal(t, StepUpdated, result.Order)
	assert.Equal(t, StepSkipped, result.Email, "no email channel configured in tests")

	payment, err := database.GetPaymentByOrderAndProvider(orderID, "mpesa")
	require.NoError(t, err)
	assert.Equal(t, result.PaymentID, payment.ID)
	assert.Equal(t, models.PaymentStatusSuccess, payment.Status)
	assert.Equal(t, order.Total, payment.Amount)
	assert.Equal(t, tx.MpesaReceiptNumber, payment.ProviderPaymentID)

	receipt, err := database.GetReceiptByOrder(orderID)
	require.NoError(t, err)
	assert.Equal(t, result.ReceiptID, receipt.ID)
	assert.Equal(t, tx.MpesaReceiptNumber, receipt.ReceiptNumber)
	assert.Contains(t, receipt.Metadata, tx.CheckoutRequestID)

	updated, err := database.GetOrderByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
}

func TestReconcileIsIdempotent(t *testing.T) {
	orderID, order := createTestOrder(t, "buyer@example.com")
	tx := createSettledTransaction(t, "CK-REC-2", orderID, order.Total)

	svc := NewReconcileService()
	first, err := svc.Reconcile(orderID, tx, "")
	require.NoError(t, err)

	second, err := svc.Reconcile(orderID, tx, "")
	require.NoError(t, err)

	assert.Equal(t, StepUpdated, second.Payment)
	assert.Equal(t, StepExists, second.Receipt)
	assert.Equal(t, first.PaymentID, second.PaymentID)
	assert.Equal(t, first.ReceiptID, second.ReceiptID)

	assert.EqualValues(t, 1, countPayments(t, orderID))
	assert.EqualValues(t, 1, countReceipts(t, orderID))
}

func TestReconcileConcurrentRunsConverge(t *testing.T) {
	orderID, order := createTestOrder(t, "buyer@example.com")
	tx := createSettledTransaction(t, "CK-REC-3", orderID, order.Total)

	svc := NewReconcileService()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reconcile(orderID, tx, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, countPayments(t, orderID))
	assert.EqualValues(t, 1, countReceipts(t, orderID))

	updated, err := database.GetOrderByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
}

func TestReconcileUnknownOrderFails(t *testing.T) {
	tx := createSettledTransaction(t, "CK-REC-4", "999999", 100)

	svc := NewReconcileService()
	_, err := svc.Reconcile("999999", tx, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReconcileReceiptAmountFallsBackToOrderTotal(t *testing.T) {
	orderID, order := createTestOrder(t, "buyer@example.com")
	tx := createSettledTransaction(t, "CK-REC-5", orderID, 0)

	svc := NewReconcileService()
	_, err := svc.Reconcile(orderID, tx, "")
	require.NoError(t, err)

	receipt, err := database.GetReceiptByOrder(orderID)
	require.NoError(t, err)
	assert.Equal(t, order.Total, receipt.Amount)
}

func TestLinkAndReconcile(t *testing.T) {
	orderID, _ := createTestOrder(t, "")
	createPendingTransaction(t, "CK-LINK-REC-1", 1740)

	svc := NewReconcileService()
	result, err := svc.LinkAndReconcile("CK-LINK-REC-1", orderID, "fallback@example.com")
	require.NoError(t, err)
	assert.NotZero(t, result.PaymentID)
	assert.NotZero(t, result.ReceiptID)

	tx, err := database.GetTransactionByCheckoutID("CK-LINK-REC-1")
	require.NoError(t, err)
	assert.Equal(t, orderID, tx.OrderID)
	assert.Equal(t, models.TxStatusSuccess, tx.Status)

	updated, err := database.GetOrderByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
}

func TestLinkAndReconcileRejectsFailedTransaction(t *testing.T) {
	orderID, _ := createTestOrder(t, "")
	createPendingTransaction(t, "CK-LINK-REC-2", 1740)
	require.NoError(t, database.UpdateTransactionResult("CK-LINK-REC-2", 1032, "Request cancelled by user", "", ""))

	svc := NewReconcileService()
	_, err := svc.LinkAndReconcile("CK-LINK-REC-2", orderID, "")
	require.Error(t, err)

	// The order must be untouched
	updated, gerr := database.GetOrderByID(orderID)
	require.NoError(t, gerr)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)

	assert.EqualValues(t, 0, countPayments(t, orderID))
	assert.EqualValues(t, 0, countReceipts(t, orderID))
}

func TestResolveRecipientChain(t *testing.T) {
	require.NoError(t, database.DB.Create(&models.Profile{
		Name: "Jane Wanjiku", Email: "jane@example.com", Phone: "254700000001",
	}).Error)

	svc := NewReconcileService()

	// Order email wins over everything
	email, _ := svc.resolveRecipient(
		&models.Order{UserEmail: "order@example.com"},
		&models.MpesaTransaction{PhoneNumber: "254700000001"},
		"fallback@example.com")
	assert.Equal(t, "order@example.com", email)

	// Profile by payer phone comes before the fallback
	email, name := svc.resolveRecipient(
		&models.Order{},
		&models.MpesaTransaction{PhoneNumber: "254700000001"},
		"fallback@example.com")
	assert.Equal(t, "jane@example.com", email)
	assert.Equal(t, "Jane Wanjiku", name)

	// Fallback is last, with the local part as a display name
	email, name = svc.resolveRecipient(
		&models.Order{},
		&models.MpesaTransaction{PhoneNumber: "254799999999"},
		"fallback@example.com")
	assert.Equal(t, "fallback@example.com", email)
	assert.Equal(t, "fallback", name)

	// Nothing resolves
	email, _ = svc.resolveRecipient(&models.Order{}, &models.MpesaTransaction{}, "")
	assert.Empty(t, email)
}

func TestLinkAndReconcileUnknownCheckout(t *testing.T) {
	orderID, _ := createTestOrder(t, "")

	svc := NewReconcileService()
	_, err := svc.LinkAndReconcile("CK-LINK-REC-MISSING", orderID, "")
	require.Error(t, err)
}
