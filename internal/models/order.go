package models

// Order status values
const (
	OrderStatusProcessing = "PROCESSING"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusRefunded   = "REFUNDED"
	OrderStatusCancelled  = "CANCELLED"
)

// Order is a purchase record. Status moves PROCESSING -> COMPLETED
// exactly once, driven by the payment reconciler.
type Order struct {
	BaseModel

	OrderNumber string `json:"order_number" gorm:"not null;size:64;index"`
	UserID      string `json:"user_id" gorm:"size:64;index"`
	UserEmail   string `json:"user_email" gorm:"size:255"`

	Date string `json:"date" gorm:"size:32"`
	Time string `json:"time" gorm:"size:32"`

	Status string `json:"status" gorm:"not null;size:20;default:'PROCESSING';index"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`

	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`

	Thumbnail string `json:"thumbnail" gorm:"size:255"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line item of an order
type OrderItem struct {
	BaseModel

	OrderID  uint    `json:"order_id" gorm:"not null;index"`
	Name     string  `json:"name" gorm:"not null;size:255"`
	Quantity int     `json:"quantity" gorm:"not null;default:1"`
	Price    float64 `json:"price" gorm:"not null"`
	Icon     string  `json:"icon" gorm:"size:64"`
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}
