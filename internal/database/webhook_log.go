package database

import (
	"modernshop-api/internal/models"
)

// LogWebhook appends a raw provider payload to the audit trail
func LogWebhook(provider, eventType, payload string) error {
	return DB.Create(&models.WebhookLog{
		Provider:  provider,
		EventType: eventType,
		Payload:   payload,
	}).Error
}
