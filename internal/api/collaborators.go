package api

import (
	"net/http"
	"strconv"

	"modernshop-api/internal/database"
	"modernshop-api/internal/models"
	"modernshop-api/internal/response"
	"modernshop-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// InviteCollaboratorRequest invites a user to a collaborative shop by email
type InviteCollaboratorRequest struct {
	ShopID    uint   `json:"shopId" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	InvitedBy string `json:"invitedBy"`
}

// InviteCollaborator records a pending shop invitation
// POST /api/collaborators
func InviteCollaborator(c *gin.Context) {
	var req InviteCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	invite := &models.Invite{
		ShopID:    req.ShopID,
		Email:     req.Email,
		InvitedBy: req.InvitedBy,
		Status:    "pending",
	}
	if err := database.CreateInvite(invite); err != nil {
		logging.Errorf("Failed to create invite: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to create invite")
		return
	}

	response.CreatedJSON(c, invite)
}

// ListShopCollaborators returns collaborators and pending invites for a shop
// GET /api/collaborators?shopId=N
func ListShopCollaborators(c *gin.Context) {
	shopID, err := strconv.ParseUint(c.Query("shopId"), 10, 64)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "shopId is required")
		return
	}

	collaborators, err := database.ListCollaborators(uint(shopID))
	if err != nil {
		logging.Errorf("Failed to list collaborators: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to get collaborators")
		return
	}

	invites, err := database.ListInvitesByShop(uint(shopID))
	if err != nil {
		logging.Errorf("Failed to list invites: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to get invites")
		return
	}

	response.SuccessJSON(c, gin.H{
		"collaborators": collaborators,
		"invites":       invites,
	})
}
