package entity

import "time"

// Address is a saved delivery destination owned by exactly one user.
// Optional columns are pointers so "not provided" survives a round trip.
type Address struct {
	ID         string
	UserID     string
	Label      string
	FullName   string
	Phone      string
	Line1      string
	Line2      *string
	City       string
	State      *string
	PostalCode *string
	Country    *string
	IsDefault  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
