package models

// Product is a catalog entry
type Product struct {
	BaseModel

	Name        string  `json:"name" gorm:"not null;size:255"`
	Price       float64 `json:"price" gorm:"not null"`
	Description string  `json:"description" gorm:"type:text"`
	Image       string  `json:"image" gorm:"size:255"`
	Category    string  `json:"category" gorm:"size:64;index"`
	Badge       string  `json:"badge" gorm:"size:32"`
	InStock     bool    `json:"in_stock" gorm:"default:true;index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}
