package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

const seedPassword = "password123"

type seedUser struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

type seedListing struct {
	Name          string
	Description   string
	Location      string
	PricePerNight decimal.Decimal
}

var baseUsers = []seedUser{
	{"john@example.com", "John", "Doe", "+1234567890"},
	{"jane@example.com", "Jane", "Smith", "+1234567891"},
	{"bob@example.com", "Bob", "Wilson", "+1234567892"},
	{"alice@example.com", "Alice", "Brown", "+1234567893"},
	{"charlie@example.com", "Charlie", "Davis", "+1234567894"},
	{"diana@example.com", "Diana", "Miller", "+1234567895"},
	{"evan@example.com", "Evan", "Garcia", "+1234567896"},
	{"fiona@example.com", "Fiona", "Martinez", "+1234567897"},
	{"george@example.com", "George", "Anderson", "+1234567898"},
	{"helen@example.com", "Helen", "Taylor", "+1234567899"},
}

var baseListings = []seedListing{
	{"Cozy Downtown Apartment", "Beautiful 2-bedroom apartment in the heart of downtown. Walking distance to restaurants, shops, and attractions.", "New York, NY", decimal.RequireFromString("120.00")},
	{"Beachfront Villa", "Stunning ocean view villa with private beach access. Perfect for a relaxing getaway.", "Malibu, CA", decimal.RequireFromString("350.00")},
	{"Mountain Cabin Retreat", "Rustic cabin nestled in the mountains. Great for hiking and outdoor activities.", "Aspen, CO", decimal.RequireFromString("200.00")},
	{"Modern Loft in Arts District", "Contemporary loft with exposed brick walls and high ceilings in trendy arts district.", "Los Angeles, CA", decimal.RequireFromString("180.00")},
	{"Historic Brownstone", "Charming brownstone with original details and modern amenities.", "Boston, MA", decimal.RequireFromString("160.00")},
	{"Luxury Penthouse", "High-end penthouse with panoramic city views and premium furnishings.", "Miami, FL", decimal.RequireFromString("450.00")},
	{"Garden Cottage", "Peaceful cottage surrounded by beautiful gardens and walking trails.", "Portland, OR", decimal.RequireFromString("95.00")},
	{"Urban Studio", "Compact but efficient studio apartment perfect for solo travelers.", "Seattle, WA", decimal.RequireFromString("80.00")},
	{"Lakeside Cabin", "Serene cabin on the lake with kayaks and fishing equipment included.", "Lake Tahoe, CA", decimal.RequireFromString("220.00")},
	{"Desert Oasis", "Modern home in the desert with pool and stunning sunset views.", "Phoenix, AZ", decimal.RequireFromString("190.00")},
}

var reviewComments = []string{
	"Great place to stay! Very clean and comfortable.",
	"Amazing location with beautiful views. Highly recommend!",
	"Host was very responsive and helpful. Will stay again.",
	"Perfect for a weekend getaway. Everything was as described.",
	"Exceeded expectations! The property was even better than the photos.",
	"Good value for money. Clean and well-maintained.",
	"Lovely place with all necessary amenities. Very peaceful.",
	"Great experience overall. The host went above and beyond.",
	"Beautiful property in a fantastic location. Five stars!",
	"Comfortable stay with easy check-in and check-out process.",
}

func userAt(i int) seedUser {
	if i < len(baseUsers) {
		return baseUsers[i]
	}
	n := i + 1
	return seedUser{
		Email:     fmt.Sprintf("user%d@example.com", n),
		FirstName: "User",
		LastName:  fmt.Sprint(n),
		Phone:     fmt.Sprintf("+123456%04d", n),
	}
}

func listingAt(i int, rng *rand.Rand) seedListing {
	if i < len(baseListings) {
		return baseListings[i]
	}
	n := i + 1
	return seedListing{
		Name:          fmt.Sprintf("Property %d", n),
		Description:   fmt.Sprintf("Description for property %d", n),
		Location:      fmt.Sprintf("Location %d", n),
		PricePerNight: decimal.NewFromInt(int64(50 + rng.Intn(251))),
	}
}

// stayDates picks a check-in between 30 days ago and 60 days ahead and a
// stay of 1 to 14 nights.
func stayDates(today time.Time, rng *rand.Rand) (checkin, checkout time.Time, nights int) {
	checkin = today.AddDate(0, 0, rng.Intn(91)-30)
	nights = 1 + rng.Intn(14)
	return checkin, checkin.AddDate(0, 0, nights), nights
}

// pickGuest returns a user other than hostID, or "" when there is none.
func pickGuest(userIDs []string, hostID string, rng *rand.Rand) string {
	guests := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id != hostID {
			guests = append(guests, id)
		}
	}
	if len(guests) == 0 {
		return ""
	}
	return guests[rng.Intn(len(guests))]
}

func bookingTotal(pricePerNight decimal.Decimal, nights int) decimal.Decimal {
	return pricePerNight.Mul(decimal.NewFromInt(int64(nights)))
}
