package database

import (
	"modernshop-api/internal/models"
)

// GetPaymentByOrderAndProvider looks up the payment for an (order, provider) pair
func GetPaymentByOrderAndProvider(orderID, provider string) (*models.Payment, error) {
	var payment models.Payment
	err := DB.Where("order_id = ? AND provider = ?", orderID, provider).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreatePayment inserts a payment row. The unique index on
// (order_id, provider) surfaces concurrent duplicates as a key conflict.
func CreatePayment(payment *models.Payment) error {
	return DB.Create(payment).Error
}

// UpdatePayment updates fields of an existing payment by primary key
func UpdatePayment(paymentID uint, updates map[string]interface{}) error {
	return DB.Model(&models.Payment{}).Where("id = ?", paymentID).Updates(updates).Error
}
