package model

import "time"

// Review is a 1–5 star rating of a listing left by a user.
type Review struct {
	ID        string      `json:"review_id"`
	ListingID string      `json:"property"`
	UserID    string      `json:"-"`
	User      *PublicUser `json:"user,omitempty"`
	Rating    int         `json:"rating"`
	Comment   string      `json:"comment"`
	CreatedAt time.Time   `json:"created_at"`
}
