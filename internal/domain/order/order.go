package order

import (
	"time"
	"unicode/utf8"
)

// Event is a newly created storefront order, as published by the order store.
type Event struct {
	ID          string    `json:"id" validate:"required"`
	PurchaserID string    `json:"purchaser_id" validate:"required"`
	TotalAmount float64   `json:"total_amount" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at"`
}

const shortIDLength = 8

// ShortID returns the first eight characters of the order id.
func (e Event) ShortID() string {
	if utf8.RuneCountInString(e.ID) <= shortIDLength {
		return e.ID
	}
	return string([]rune(e.ID)[:shortIDLength])
}
