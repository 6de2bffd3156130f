package database

import (
	"strconv"

	"modernshop-api/internal/models"
)

// CreateOrder creates an order with its line items
func CreateOrder(order *models.Order) error {
	return DB.Create(order).Error
}

// GetOrderByID gets an order (with items) by its string id
func GetOrderByID(orderID string) (*models.Order, error) {
	id, err := strconv.ParseUint(orderID, 10, 64)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := DB.Preload("Items").First(&order, uint(id)).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns order history, newest first
func ListOrders() ([]models.Order, error) {
	var orders []models.Order
	err := DB.Preload("Items").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// UpdateOrderStatus sets the order status. Setting the same status again is
// harmless, which keeps reconciliation idempotent.
func UpdateOrderStatus(orderID, status string) error {
	id, err := strconv.ParseUint(orderID, 10, 64)
	if err != nil {
		return err
	}
	return DB.Model(&models.Order{}).Where("id = ?", uint(id)).
		Update("status", status).Error
}
