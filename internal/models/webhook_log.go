package models

// WebhookLog is the raw audit trail of provider callbacks. Rows are
// written before the payload is interpreted and never deleted.
type WebhookLog struct {
	BaseModel

	Provider  string `json:"provider" gorm:"not null;size:32;index"`
	EventType string `json:"event_type" gorm:"not null;size:64"`
	Payload   string `json:"payload" gorm:"type:text"`
}

// TableName specifies the table name
func (WebhookLog) TableName() string {
	return "webhook_logs"
}
