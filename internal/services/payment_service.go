package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"modernshop-api/internal/config"
	"modernshop-api/internal/database"
	"modernshop-api/internal/models"
	"modernshop-api/internal/mpesa"
	"modernshop-api/pkg/logging"
)

// PendingResultCode is the sentinel returned while a payment has no terminal
// outcome yet. It is distinct from every provider code so callers keep
// polling instead of treating a transient provider error as failure.
const PendingResultCode = "pending"

// ErrPollTimeout is returned when the status poller exhausts its attempt
// budget without observing a terminal result
var ErrPollTimeout = errors.New("payment status polling timed out")

// PaymentService drives the push-payment lifecycle: initiation, status
// polling and ledger convergence.
type PaymentService struct {
	client mpesa.Client

	// Polling knobs, set from configuration
	PollInterval time.Duration
	MaxAttempts  int
}

// NewPaymentService creates a payment service with the configured provider
// client (live or mock)
func NewPaymentService() *PaymentService {
	return NewPaymentServiceWithClient(mpesa.NewClient())
}

// NewPaymentServiceWithClient creates a payment service with an explicit
// provider client
func NewPaymentServiceWithClient(client mpesa.Client) *PaymentService {
	interval := 5 * time.Second
	attempts := 24
	if config.AppConfig != nil {
		if config.AppConfig.PollIntervalSeconds > 0 {
			interval = time.Duration(config.AppConfig.PollIntervalSeconds) * time.Second
		}
		if config.AppConfig.PollMaxAttempts > 0 {
			attempts = config.AppConfig.PollMaxAttempts
		}
	}
	return &PaymentService{
		client:       client,
		PollInterval: interval,
		MaxAttempts:  attempts,
	}
}

// Initiate sends the STK push and records the pending ledger entry. A ledger
// write failure propagates - the transaction record is the core of the flow.
func (s *PaymentService) Initiate(ctx context.Context, phoneNumber string, amount float64, orderID string) (*mpesa.STKPushResponse, error) {
	res, err := s.client.STKPush(ctx, phoneNumber, amount, orderID)
	if err != nil {
		return nil, err
	}

	tx := &models.MpesaTransaction{
		CheckoutRequestID: res.CheckoutRequestID,
		MerchantRequestID: res.MerchantRequestID,
		PhoneNumber:       mpesa.FormatPhoneNumber(phoneNumber),
		Amount:            amount,
		Status:            models.TxStatusPending,
	}
	if err := database.CreateTransaction(tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction for checkout %s: %w", res.CheckoutRequestID, err)
	}

	logging.Infof("STK push initiated - checkout: %s, phone: %s, amount: %.2f",
		res.CheckoutRequestID, tx.PhoneNumber, amount)
	return res, nil
}

// CheckStatus performs one status query. When the provider query itself
// fails, the ledger is consulted instead: a ledger entry already marked
// success (the callback won the race) yields a synthesized success, anything
// else yields the pending sentinel. Settled results are persisted into the
// ledger before returning so poller and callback converge on the same state.
func (s *PaymentService) CheckStatus(ctx context.Context, checkoutRequestID string) (*mpesa.StatusResponse, error) {
	res, err := s.client.QueryStatus(ctx, checkoutRequestID)
	if err != nil {
		logging.Warnf("Status query failed for checkout %s, falling back to ledger: %v", checkoutRequestID, err)
		return s.ledgerFallback(checkoutRequestID), nil
	}

	if res.ResultCode == "0" {
		code, _ := strconv.Atoi(res.ResultCode)
		if err := database.UpdateTransactionResult(checkoutRequestID, code, res.ResultDesc, "", ""); err != nil {
			logging.Errorf("Failed to persist settled status for checkout %s: %v", checkoutRequestID, err)
		}
	}

	return res, nil
}

// ledgerFallback synthesizes a status response from the ledger when the
// provider is unreachable
func (s *PaymentService) ledgerFallback(checkoutRequestID string) *mpesa.StatusResponse {
	tx, err := database.GetTransactionByCheckoutID(checkoutRequestID)
	if err == nil && tx.Status == models.TxStatusSuccess {
		return &mpesa.StatusResponse{
			ResponseCode:      "0",
			CheckoutRequestID: checkoutRequestID,
			ResultCode:        "0",
			ResultDesc:        "The service request is processed successfully.",
		}
	}

	return &mpesa.StatusResponse{
		CheckoutRequestID: checkoutRequestID,
		ResultCode:        PendingResultCode,
		ResultDesc:        "Status query unavailable, payment still pending",
	}
}

// WaitForSettlement polls until a terminal result is observed, the attempt
// budget runs out, or ctx is cancelled. The first attempt fires immediately;
// later attempts are spaced by PollInterval.
func (s *PaymentService) WaitForSettlement(ctx context.Context, checkoutRequestID string) (*mpesa.StatusResponse, error) {
	for attempt := 0; attempt < s.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.PollInterval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		res, err := s.CheckStatus(ctx, checkoutRequestID)
		if err != nil {
			return nil, err
		}
		if res.ResultCode != PendingResultCode {
			return res, nil
		}
	}

	return nil, ErrPollTimeout
}
