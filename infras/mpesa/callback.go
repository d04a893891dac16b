package mpesa

import "encoding/json"

// STKCallbackEnvelope is the wrapper the gateway posts to the callback URL
// after the customer completes or dismisses the phone prompt.
type STKCallbackEnvelope struct {
	Body struct {
		StkCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

type STKCallback struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        int    `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	CallbackMetadata  struct {
		Item []CallbackItem `json:"Item"`
	} `json:"CallbackMetadata"`
}

type CallbackItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value"`
}

// Succeeded reports whether the customer authorized the payment.
func (c *STKCallback) Succeeded() bool {
	return c.ResultCode == 0
}

// ReceiptNumber extracts the gateway receipt from the callback metadata, or
// an empty string when the item is absent (failed payments carry no
// metadata).
func (c *STKCallback) ReceiptNumber() string {
	for _, item := range c.CallbackMetadata.Item {
		if item.Name != "MpesaReceiptNumber" {
			continue
		}

		var receipt string
		if err := json.Unmarshal(item.Value, &receipt); err == nil {
			return receipt
		}
	}

	return ""
}
