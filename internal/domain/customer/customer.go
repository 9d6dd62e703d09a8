// Package customer holds the registration record and its store. Registration
// is pass-through: the service persists what was sent with no derived
// computation.
package customer

import (
	"context"
	"time"
)

// Customer mirrors the registration payload field-for-field.
type Customer struct {
	UserID      string     `json:"UserId"`
	FirstName   string     `json:"FirstName"`
	LastName    string     `json:"LastName"`
	DateOfBirth *time.Time `json:"DateOfBirth"`
	Email       string     `json:"Email"`
	Gender      string     `json:"Gender"`
	Address     string     `json:"Address"`
	PostalCode  string     `json:"PostalCode"`
	State       string     `json:"State"`
	Country     string     `json:"Country"`
	Mobile      string     `json:"Mobile"`
	Password    string     `json:"Password"`
}

// Repository defines persistence operations for customers.
type Repository interface {
	Register(ctx context.Context, c *Customer) error
	List(ctx context.Context) ([]Customer, error)
}
