package api

import (
	"net/http"

	"modernshop-api/internal/database"
	"modernshop-api/internal/response"
	"modernshop-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// ListProducts returns the in-stock catalog
// GET /api/products
func ListProducts(c *gin.Context) {
	products, err := database.ListProducts()
	if err != nil {
		logging.Errorf("Failed to list products: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to get products")
		return
	}

	response.SuccessJSON(c, products)
}
