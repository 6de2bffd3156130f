package services

import (
	"fmt"
	"os"
	"strconv"
	"testing"

	"modernshop-api/internal/config"
	"modernshop-api/internal/database"
	"modernshop-api/internal/models"
	"modernshop-api/pkg/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logging.InitLogging()
	config.AppConfig = &config.Config{
		Mode:                "test",
		Currency:            "KES",
		ShortCode:           "174379",
		PollIntervalSeconds: 1,
		PollMaxAttempts:     3,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	database.DB = db
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Profile{},
		&models.Order{},
		&models.OrderItem{},
		&models.MpesaTransaction{},
		&models.Payment{},
		&models.Receipt{},
		&models.WebhookLog{},
	); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func createTestOrder(t *testing.T, email string) (string, *models.Order) {
	t.Helper()
	order := &models.Order{
		OrderNumber: "ORD-" + t.Name(),
		UserEmail:   email,
		Status:      models.OrderStatusProcessing,
		Items: []models.OrderItem{
			{Name: "Wireless Mouse", Quantity: 2, Price: 750},
		},
		Subtotal: 1500,
		Tax:      240,
		Total:    1740,
	}
	if err := database.CreateOrder(order); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}
	return strconv.FormatUint(uint64(order.ID), 10), order
}

func createSettledTransaction(t *testing.T, checkoutRequestID, orderID string, amount float64) *models.MpesaTransaction {
	t.Helper()
	code := 0
	tx := &models.MpesaTransaction{
		OrderID:            orderID,
		CheckoutRequestID:  checkoutRequestID,
		MerchantRequestID:  "MR-" + checkoutRequestID,
		PhoneNumber:        "254712345678",
		Amount:             amount,
		Status:             models.TxStatusSuccess,
		ResultCode:         &code,
		MpesaReceiptNumber: fmt.Sprintf("RCPT-%s", checkoutRequestID),
	}
	if err := database.CreateTransaction(tx); err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}
	return tx
}

func createPendingTransaction(t *testing.T, checkoutRequestID string, amount float64) *models.MpesaTransaction {
	t.Helper()
	tx := &models.MpesaTransaction{
		CheckoutRequestID: checkoutRequestID,
		MerchantRequestID: "MR-" + checkoutRequestID,
		PhoneNumber:       "254712345678",
		Amount:            amount,
		Status:            models.TxStatusPending,
	}
	if err := database.CreateTransaction(tx); err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}
	return tx
}
