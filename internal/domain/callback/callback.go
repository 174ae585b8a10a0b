// Package callback models inbound payment gateway callbacks.
//
// A callback arrives as a Payload: an opaque data string and the MAC the
// gateway computed over it. The data can only be parsed through
// Authenticated, which is obtainable solely from Payload.Authenticate, so
// unverified data never reaches the JSON decoder.
package callback

import (
	"encoding/json"

	"github.com/cassiomorais/storenotify/pkg/signature"
)

// Payload is the raw callback body as posted by the gateway.
type Payload struct {
	Data string `json:"data"`
	MAC  string `json:"mac"`
}

// Authenticated is a payload whose MAC has been checked.
type Authenticated struct {
	data string
}

// Authenticate verifies the MAC against secret.
func (p Payload) Authenticate(secret []byte) (Authenticated, bool) {
	if !signature.Verify(p.Data, p.MAC, secret) {
		return Authenticated{}, false
	}
	return Authenticated{data: p.Data}, true
}

// Parse decodes the authenticated data string.
func (a Authenticated) Parse() (*VerifiedCallback, error) {
	var vc VerifiedCallback
	if err := json.Unmarshal([]byte(a.data), &vc); err != nil {
		return nil, err
	}
	vc.Raw = a.data
	return &vc, nil
}

// VerifiedCallback is the parsed form of an authenticated payload.
//
// AppTransID is the merchant-side transaction id and the idempotency key for
// any settlement action taken on the callback.
type VerifiedCallback struct {
	AppID          int64  `json:"app_id"`
	AppTransID     string `json:"app_trans_id" validate:"required"`
	AppTime        int64  `json:"app_time"`
	AppUser        string `json:"app_user"`
	Amount         int64  `json:"amount" validate:"gte=0"`
	EmbedData      string `json:"embed_data"`
	Item           string `json:"item"`
	ZPTransID      int64  `json:"zp_trans_id"`
	ServerTime     int64  `json:"server_time"`
	Channel        int    `json:"channel"`
	MerchantUserID string `json:"merchant_user_id"`
	UserFeeAmount  int64  `json:"user_fee_amount"`
	DiscountAmount int64  `json:"discount_amount"`

	Raw string `json:"-"`
}
