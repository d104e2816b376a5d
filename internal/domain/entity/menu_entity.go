package entity

import "time"

type Category struct {
	ID          string
	Name        string
	Description string
}

// MenuItem is a purchasable product of the catalogue.
type MenuItem struct {
	ID          string
	Name        string
	Price       float64
	ImageURL    string
	Description string
	Calories    int
	Protein     int
	Rating      float64
	Type        string
	CategoryID  string
	CreatedAt   time.Time
}
