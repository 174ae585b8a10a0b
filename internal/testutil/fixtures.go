package testutil

import (
	"encoding/json"
	"time"

	"github.com/cassiomorais/storenotify/internal/domain/callback"
	"github.com/cassiomorais/storenotify/internal/domain/order"
	"github.com/cassiomorais/storenotify/pkg/signature"
)

// TestCallbackSecret is the key2 used by callback tests.
const TestCallbackSecret = "kLtgPl8HHhfvMuDHPwKfgfsY4Ydm9eIz"

func NewTestOrder(id, purchaserID string, total float64) order.Event {
	return order.Event{
		ID:          id,
		PurchaserID: purchaserID,
		TotalAmount: total,
		CreatedAt:   time.Now(),
	}
}

// NewCallbackData returns a gateway data string for appTransID.
func NewCallbackData(appTransID string, amount int64) string {
	body, _ := json.Marshal(map[string]any{
		"app_id":           2553,
		"app_trans_id":     appTransID,
		"app_time":         1672531200000,
		"app_user":         "user123",
		"amount":           amount,
		"embed_data":       "{}",
		"item":             "[]",
		"zp_trans_id":      230101000000123,
		"server_time":      1672531205000,
		"channel":          38,
		"merchant_user_id": "merchant-user",
		"user_fee_amount":  0,
		"discount_amount":  0,
	})
	return string(body)
}

// NewSignedPayload signs data with secret.
func NewSignedPayload(data, secret string) callback.Payload {
	return callback.Payload{Data: data, MAC: signature.Sign(data, []byte(secret))}
}
