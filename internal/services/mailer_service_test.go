package services

import (
	"testing"

	"modernshop-api/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMailerConfigured(t *testing.T) {
	assert.False(t, (&MailerService{}).Configured())

	smtp := &MailerService{smtpHost: "smtp.example.com", smtpUser: "u", smtpPass: "p"}
	assert.True(t, smtp.Configured())

	brevoOnly := &MailerService{brevoAPIKey: "key", fromEmail: "shop@example.com"}
	assert.True(t, brevoOnly.Configured())

	// Brevo needs a sender address
	assert.False(t, (&MailerService{brevoAPIKey: "key"}).Configured())
}

func TestSendReceiptEmailUnconfigured(t *testing.T) {
	m := &MailerService{}
	err := m.SendReceiptEmail(&models.Order{OrderNumber: "ORD-1"}, "Customer", "to@example.com")
	assert.Error(t, err)
}

func TestRenderReceiptHTML(t *testing.T) {
	order := &models.Order{
		OrderNumber: "ORD-1234",
		Date:        "Mar 9, 2024",
		Items: []models.OrderItem{
			{Name: "Wireless Mouse", Quantity: 2, Price: 750},
			{Name: "USB-C Cable", Quantity: 1, Price: 240},
		},
		Subtotal: 1740,
		Total:    1740,
	}

	html := renderReceiptHTML(order, "Jane")
	assert.Contains(t, html, "Thank you, Jane!")
	assert.Contains(t, html, "#ORD-1234")
	assert.Contains(t, html, "Wireless Mouse")
	assert.Contains(t, html, "USB-C Cable")
	assert.Contains(t, html, "Mar 9, 2024")
	assert.Contains(t, html, "1740.00")
}
