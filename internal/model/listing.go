package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing is a property offered for rent by its host.
type Listing struct {
	ID            string          `json:"listing_id"`
	HostID        string          `json:"-"`
	Host          *PublicUser     `json:"host,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	PricePerNight decimal.Decimal `json:"pricepernight"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Reviews       []Review        `json:"reviews,omitempty"`
	ReviewCount   int             `json:"review_count"`
}
