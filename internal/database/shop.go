package database

import (
	"modernshop-api/internal/models"
)

// CreateInvite records a pending invitation to a collaborative shop
func CreateInvite(invite *models.Invite) error {
	return DB.Create(invite).Error
}

// ListInvitesByShop returns the invites for a shop
func ListInvitesByShop(shopID uint) ([]models.Invite, error) {
	var invites []models.Invite
	err := DB.Where("shop_id = ?", shopID).Order("created_at DESC").Find(&invites).Error
	return invites, err
}

// ListCollaborators returns the collaborators of a shop
func ListCollaborators(shopID uint) ([]models.Collaborator, error) {
	var collaborators []models.Collaborator
	err := DB.Where("shop_id = ?", shopID).Find(&collaborators).Error
	return collaborators, err
}
