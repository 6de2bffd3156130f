package mpesa

import (
	"context"

	"github.com/google/uuid"
)

// MockClient synthesizes Daraja responses without network access. Used when
// MPESA_MOCK is enabled so checkout can be exercised end to end without live
// provider credentials.
type MockClient struct{}

// NewMockClient creates a mock Daraja client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// STKPush returns an accepted response with a synthetic checkout id
func (c *MockClient) STKPush(ctx context.Context, phoneNumber string, amount float64, orderID string) (*STKPushResponse, error) {
	id := uuid.NewString()
	return &STKPushResponse{
		MerchantRequestID:   "MOCK-MR-" + id,
		CheckoutRequestID:   "MOCK-CHECKOUT-" + id,
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
		CustomerMessage:     "Success. Request accepted for processing",
	}, nil
}

// QueryStatus reports every mocked checkout as immediately settled
func (c *MockClient) QueryStatus(ctx context.Context, checkoutRequestID string) (*StatusResponse, error) {
	return &StatusResponse{
		ResponseCode:        "0",
		ResponseDescription: "The service request has been accepted successfully",
		CheckoutRequestID:   checkoutRequestID,
		ResultCode:          "0",
		ResultDesc:          "The service request is processed successfully.",
	}, nil
}
