package api

import (
	"net/http"
	"strconv"
	"time"

	"modernshop-api/internal/database"
	"modernshop-api/internal/models"
	"modernshop-api/internal/response"
	"modernshop-api/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateOrderItemRequest is one line item of a new order
type CreateOrderItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	Price    float64 `json:"price" binding:"required"`
	Icon     string  `json:"icon"`
}

// CreateOrderRequest represents a new purchase order
type CreateOrderRequest struct {
	OrderNumber string                   `json:"orderNumber"`
	UserID      string                   `json:"userId"`
	UserEmail   string                   `json:"userEmail"`
	Items       []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Subtotal    float64                  `json:"subtotal"`
	Shipping    float64                  `json:"shipping"`
	Tax         float64                  `json:"tax"`
	Total       float64                  `json:"total" binding:"required"`
	Thumbnail   string                   `json:"thumbnail"`
}

// CreateOrder creates a PROCESSING order with its line items. The payment
// link call later moves it to COMPLETED.
// POST /api/orders
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = "ORD-" + uuid.NewString()[:8]
	}

	now := time.Now()
	order := &models.Order{
		OrderNumber: orderNumber,
		UserID:      req.UserID,
		UserEmail:   req.UserEmail,
		Date:        now.Format("Jan 2, 2006"),
		Time:        now.Format("3:04 PM"),
		Status:      models.OrderStatusProcessing,
		Subtotal:    req.Subtotal,
		Shipping:    req.Shipping,
		Tax:         req.Tax,
		Total:       req.Total,
		Thumbnail:   req.Thumbnail,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Icon:     item.Icon,
		})
	}

	if err := database.CreateOrder(order); err != nil {
		logging.Errorf("Failed to create order: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	response.CreatedJSON(c, gin.H{
		"id":    strconv.FormatUint(uint64(order.ID), 10),
		"order": order,
	})
}

// ListOrders returns order history, newest first
// GET /api/orders
func ListOrders(c *gin.Context) {
	orders, err := database.ListOrders()
	if err != nil {
		logging.Errorf("Failed to list orders: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to get orders")
		return
	}

	response.SuccessJSON(c, orders)
}
