package mpesa

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successCallbackBody = `{
	"Body": {
		"stkCallback": {
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": 0,
			"ResultDesc": "The service request is processed successfully.",
			"CallbackMetadata": {
				"Item": [
					{"Name": "Amount", "Value": 1.00},
					{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
					{"Name": "TransactionDate", "Value": 20191219102115},
					{"Name": "PhoneNumber", "Value": 254708374149}
				]
			}
		}
	}
}`

const cancelledCallbackBody = `{
	"Body": {
		"stkCallback": {
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": 1032,
			"ResultDesc": "Request cancelled by user"
		}
	}
}`

func TestCallbackEnvelopeSuccess(t *testing.T) {
	var envelope CallbackEnvelope
	require.NoError(t, json.Unmarshal([]byte(successCallbackBody), &envelope))

	cb := envelope.Body.StkCallback
	assert.Equal(t, "ws_CO_191220191020363925", cb.CheckoutRequestID)
	assert.Equal(t, 0, cb.ResultCode)

	require.NotNil(t, cb.CallbackMetadata)
	assert.Equal(t, 1.00, cb.CallbackMetadata.Amount())
	assert.Equal(t, "NLJ7RT61SV", cb.CallbackMetadata.ReceiptNumber())
	assert.Equal(t, "254708374149", cb.CallbackMetadata.PhoneNumber())
}

func TestCallbackEnvelopeFailureHasNoMetadata(t *testing.T) {
	var envelope CallbackEnvelope
	require.NoError(t, json.Unmarshal([]byte(cancelledCallbackBody), &envelope))

	cb := envelope.Body.StkCallback
	assert.Equal(t, 1032, cb.ResultCode)
	assert.Nil(t, cb.CallbackMetadata)
}

func TestCallbackMetadataNilSafe(t *testing.T) {
	var m *CallbackMetadata
	assert.Equal(t, 0.0, m.Amount())
	assert.Equal(t, "", m.ReceiptNumber())
	assert.Equal(t, "", m.PhoneNumber())
}

func TestCallbackMetadataStringPhone(t *testing.T) {
	m := &CallbackMetadata{Item: []MetadataItem{{Name: "PhoneNumber", Value: "254712345678"}}}
	assert.Equal(t, "254712345678", m.PhoneNumber())
}
