package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"modernshop-api/internal/config"
	"modernshop-api/internal/models"
	"modernshop-api/pkg/logging"

	brevo "github.com/getbrevo/brevo-go/lib"
)

// MailerService dispatches receipt notifications. The SMTP relay is the
// preferred channel; the Brevo transactional API is the fallback when no
// relay is configured. Absence of both is not an error, just a skipped
// side effect.
type MailerService struct {
	smtpHost    string
	smtpPort    int
	smtpUser    string
	smtpPass    string
	brevoAPIKey string
	fromEmail   string
	fromName    string
}

// NewMailerService creates a mailer from the application configuration
func NewMailerService() *MailerService {
	cfg := config.AppConfig
	if cfg == nil {
		return &MailerService{}
	}
	return &MailerService{
		smtpHost:    cfg.SMTPHost,
		smtpPort:    cfg.SMTPPort,
		smtpUser:    cfg.SMTPUser,
		smtpPass:    cfg.SMTPPass,
		brevoAPIKey: cfg.BrevoAPIKey,
		fromEmail:   cfg.ReceiptFromEmail,
		fromName:    cfg.ReceiptFromName,
	}
}

// Configured reports whether any email channel is available
func (m *MailerService) Configured() bool {
	return m.smtpConfigured() || m.brevoConfigured()
}

func (m *MailerService) smtpConfigured() bool {
	return m.smtpHost != "" && m.smtpUser != "" && m.smtpPass != ""
}

func (m *MailerService) brevoConfigured() bool {
	return m.brevoAPIKey != "" && m.fromEmail != ""
}

// SendReceiptEmail renders and dispatches the receipt for a completed order
func (m *MailerService) SendReceiptEmail(order *models.Order, customerName, toEmail string) error {
	subject := fmt.Sprintf("Your ModernShop receipt for Order #%s", order.OrderNumber)
	html := renderReceiptHTML(order, customerName)

	if m.smtpConfigured() {
		if err := m.sendSMTP(toEmail, subject, html); err != nil {
			return err
		}
		logging.Infof("Receipt email sent via SMTP to %s", toEmail)
		return nil
	}

	if m.brevoConfigured() {
		if err := m.sendBrevo(toEmail, customerName, subject, html); err != nil {
			return err
		}
		logging.Infof("Receipt email sent via Brevo to %s", toEmail)
		return nil
	}

	return fmt.Errorf("no email channel configured")
}

// sendSMTP delivers through the configured relay
func (m *MailerService) sendSMTP(to, subject, html string) error {
	from := m.fromEmail
	if from == "" {
		from = m.smtpUser
	}

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		html,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.smtpHost, m.smtpPort)
	auth := smtp.PlainAuth("", m.smtpUser, m.smtpPass, m.smtpHost)

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("SMTP send failed: %w", err)
	}
	return nil
}

// sendBrevo delivers through the Brevo transactional email API
func (m *MailerService) sendBrevo(to, toName, subject, html string) error {
	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", m.brevoAPIKey)
	client := brevo.NewAPIClient(cfg)

	email := brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  m.fromName,
			Email: m.fromEmail,
		},
		To: []brevo.SendSmtpEmailTo{
			{Email: to, Name: toName},
		},
		Subject:     subject,
		HtmlContent: html,
	}

	_, resp, err := client.TransactionalEmailsApi.SendTransacEmail(context.Background(), email)
	if err != nil {
		return fmt.Errorf("brevo send failed: %w", err)
	}
	if resp != nil && resp.StatusCode >= 300 {
		return fmt.Errorf("brevo API error: status %d", resp.StatusCode)
	}
	return nil
}

// renderReceiptHTML builds the receipt email body
func renderReceiptHTML(order *models.Order, customerName string) string {
	var items strings.Builder
	for _, item := range order.Items {
		items.WriteString(fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">%.2f</td>
			</tr>`, item.Name, item.Quantity, item.Price))
	}

	return fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head><meta charset="UTF-8"><title>Receipt</title></head>
		<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<div style="background-color: #f8f9fa; padding: 30px; border-radius: 10px;">
				<h1 style="color: #333;">Thank you, %s!</h1>
				<p style="color: #666;">Your payment for order <strong>#%s</strong> was received on %s.</p>
				<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
					<tr>
						<th style="padding: 8px; text-align: left; border-bottom: 2px solid #333;">Item</th>
						<th style="padding: 8px; text-align: center; border-bottom: 2px solid #333;">Qty</th>
						<th style="padding: 8px; text-align: right; border-bottom: 2px solid #333;">Price</th>
					</tr>
					%s
				</table>
				<p style="color: #666; text-align: right;">Subtotal: %.2f<br>Shipping: %.2f<br>Tax: %.2f</p>
				<p style="color: #333; text-align: right; font-size: 18px;"><strong>Total: %.2f</strong></p>
				<p style="color: #999; font-size: 12px; margin-top: 30px;">ModernShop - keep this email for your records.</p>
			</div>
		</body>
		</html>`,
		customerName, order.OrderNumber, order.Date, items.String(),
		order.Subtotal, order.Shipping, order.Tax, order.Total)
}

// settlementCurrency returns the storefront settlement currency
func settlementCurrency() string {
	if config.AppConfig != nil && config.AppConfig.Currency != "" {
		return config.AppConfig.Currency
	}
	return "KES"
}
