package database

import (
	"modernshop-api/internal/models"
	"modernshop-api/pkg/logging"
)

// ListProducts returns the in-stock catalog, oldest first
func ListProducts() ([]models.Product, error) {
	var products []models.Product
	err := DB.Where("in_stock = ?", true).Order("created_at ASC").Find(&products).Error
	return products, err
}

// seedProducts inserts the default catalog on first boot
func seedProducts() error {
	var count int64
	if err := DB.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.Product{
		{Name: "Wireless Headphones", Price: 4500, Description: "Over-ear wireless headphones with noise cancellation", Category: "electronics", Badge: "popular", InStock: true},
		{Name: "Smart Watch", Price: 8900, Description: "Fitness tracking smart watch", Category: "electronics", InStock: true},
		{Name: "Ceramic Mug", Price: 650, Description: "Hand-glazed ceramic mug, 350ml", Category: "home", InStock: true},
		{Name: "Canvas Backpack", Price: 2400, Description: "Water-resistant canvas backpack", Category: "accessories", Badge: "new", InStock: true},
		{Name: "Desk Lamp", Price: 1800, Description: "Adjustable LED desk lamp", Category: "home", InStock: true},
	}

	if err := DB.Create(&defaults).Error; err != nil {
		return err
	}

	logging.Infof("Seeded %d default products", len(defaults))
	return nil
}
