package models

// Payment status values
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

// Payment records one settled payment per (order, provider) pair.
// The composite unique index turns a concurrent duplicate insert into a
// conflict that callers resolve as "already reconciled".
type Payment struct {
	BaseModel

	OrderID  string `json:"order_id" gorm:"not null;size:64;uniqueIndex:idx_payments_order_provider"`
	Provider string `json:"provider" gorm:"not null;size:32;default:'mpesa';uniqueIndex:idx_payments_order_provider"`

	// The provider receipt number (M-Pesa receipt) when available
	ProviderPaymentID string `json:"provider_payment_id" gorm:"size:100"`

	Amount   float64 `json:"amount" gorm:"not null"`
	Currency string  `json:"currency" gorm:"size:8;default:'KES'"`
	Status   string  `json:"status" gorm:"not null;size:20;default:'pending';index"`

	RawResponse string `json:"raw_response" gorm:"type:text"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}
