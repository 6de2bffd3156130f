package models

// Receipt is the human-facing settlement record, at most one per order.
type Receipt struct {
	BaseModel

	OrderID   string `json:"order_id" gorm:"not null;size:64;uniqueIndex"`
	PaymentID uint   `json:"payment_id" gorm:"index"`
	MpesaTxID uint   `json:"mpesa_tx_id" gorm:"index"`

	ReceiptNumber string  `json:"receipt_number" gorm:"size:100"`
	Amount        float64 `json:"amount" gorm:"not null"`
	Currency      string  `json:"currency" gorm:"size:8;default:'KES'"`

	// Free-form metadata (JSON), keeps the checkout id for traceability
	Metadata string `json:"metadata" gorm:"type:text"`
}

// TableName specifies the table name
func (Receipt) TableName() string {
	return "receipts"
}
