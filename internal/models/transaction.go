package models

// Transaction status values. The only legal transition is pending to a
// terminal value; terminal states never change.
const (
	TxStatusPending = "pending"
	TxStatusSuccess = "success"
	TxStatusFailed  = "failed"
)

// MpesaTransaction is the ledger entry for one STK push attempt,
// keyed by the Daraja-assigned checkout request ID.
type MpesaTransaction struct {
	BaseModel

	// Set by the link call or the callback-time join; empty until then
	OrderID string `json:"order_id" gorm:"size:64;index"`

	CheckoutRequestID string `json:"checkout_request_id" gorm:"not null;size:100;uniqueIndex"`
	MerchantRequestID string `json:"merchant_request_id" gorm:"size:100"`

	// Request parameters, immutable after creation
	PhoneNumber string  `json:"phone_number" gorm:"not null;size:20;index"`
	Amount      float64 `json:"amount" gorm:"not null"`

	Status string `json:"status" gorm:"not null;size:20;default:'pending';index"`

	// Provider outcome fields, set only on terminal status
	ResultCode         *int   `json:"result_code"`
	ResultDesc         string `json:"result_desc" gorm:"size:255"`
	MpesaReceiptNumber string `json:"mpesa_receipt_number" gorm:"size:100"`

	// Last raw callback payload observed, kept for audit
	CallbackPayload string `json:"callback_payload" gorm:"type:text"`
}

// TableName specifies the table name
func (MpesaTransaction) TableName() string {
	return "mpesa_transactions"
}

// IsTerminal reports whether the transaction reached a final state
func (t *MpesaTransaction) IsTerminal() bool {
	return t.Status == TxStatusSuccess || t.Status == TxStatusFailed
}

// CanTransitionTo checks whether a status transition is allowed.
// pending may move to success or failed; terminal states are frozen.
func (t *MpesaTransaction) CanTransitionTo(status string) bool {
	if t.Status == status {
		return true
	}
	return t.Status == TxStatusPending && (status == TxStatusSuccess || status == TxStatusFailed)
}
