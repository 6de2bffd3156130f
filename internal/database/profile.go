package database

import (
	"strconv"

	"modernshop-api/internal/models"
)

// GetProfileByID gets a profile by its string id
func GetProfileByID(userID string) (*models.Profile, error) {
	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := DB.First(&profile, uint(id)).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByPhone gets a profile by phone number
func GetProfileByPhone(phone string) (*models.Profile, error) {
	var profile models.Profile
	err := DB.Where("phone = ?", phone).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByEmail gets a profile by email
func GetProfileByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	err := DB.Where("email = ?", email).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
