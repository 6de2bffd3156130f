package database

import (
	"modernshop-api/internal/models"
)

// GetReceiptByOrder looks up the receipt for an order
func GetReceiptByOrder(orderID string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := DB.Where("order_id = ?", orderID).First(&receipt).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// CreateReceipt inserts a receipt row. The unique index on order_id surfaces
// concurrent duplicates as a key conflict.
func CreateReceipt(receipt *models.Receipt) error {
	return DB.Create(receipt).Error
}
