package entity

import "github.com/shopspring/decimal"

// WalkInCustomerName is the backend's placeholder for anonymous sales
const WalkInCustomerName = "Walk In Customer"

// Customer is a loyalty-program member as returned by the remote backend
type Customer struct {
	ID               string          `json:"id"`
	FullName         string          `json:"full_name"`
	Phone            string          `json:"phone,omitempty"`
	Email            string          `json:"email,omitempty"`
	TotalPoints      int             `json:"total_points"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
}

// Ref returns the value the backend accepts as the customer on an order:
// phone first, then id, then the display name.
func (c *Customer) Ref() string {
	switch {
	case c.Phone != "":
		return c.Phone
	case c.ID != "":
		return c.ID
	default:
		return c.FullName
	}
}

// IsWalkIn reports whether this is the anonymous walk-in placeholder
func (c *Customer) IsWalkIn() bool {
	return c.ID == WalkInCustomerName || c.FullName == WalkInCustomerName
}

// NewCustomer is the registration form for a loyalty member
type NewCustomer struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email_address"`
	PhoneNumber string `json:"phone_number"`
	DateOfBirth string `json:"dob"`
}
