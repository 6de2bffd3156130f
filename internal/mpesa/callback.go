package mpesa

import "strconv"

// CallbackEnvelope is the nested webhook body Daraja posts after an STK push
// attempt settles or fails.
type CallbackEnvelope struct {
	Body struct {
		StkCallback StkCallback `json:"stkCallback"`
	} `json:"Body"`
}

// StkCallback carries the authoritative result of one push attempt
type StkCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

// CallbackMetadata is the name/value list attached to successful callbacks
type CallbackMetadata struct {
	Item []MetadataItem `json:"Item"`
}

// MetadataItem is one name/value entry of the callback metadata
type MetadataItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value,omitempty"`
}

// Amount extracts the settled amount from the metadata, 0 when absent
func (m *CallbackMetadata) Amount() float64 {
	if v, ok := m.value("Amount").(float64); ok {
		return v
	}
	return 0
}

// ReceiptNumber extracts the M-Pesa receipt number, empty when absent
func (m *CallbackMetadata) ReceiptNumber() string {
	if v, ok := m.value("MpesaReceiptNumber").(string); ok {
		return v
	}
	return ""
}

// PhoneNumber extracts the payer phone number. Daraja sends it as a number,
// so both string and numeric encodings are handled.
func (m *CallbackMetadata) PhoneNumber() string {
	switch v := m.value("PhoneNumber").(type) {
	case string:
		return v
	case float64:
		// Daraja encodes phone numbers as JSON numbers; they fit in int64
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}

func (m *CallbackMetadata) value(name string) interface{} {
	if m == nil {
		return nil
	}
	for _, item := range m.Item {
		if item.Name == name {
			return item.Value
		}
	}
	return nil
}

