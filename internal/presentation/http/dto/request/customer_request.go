package request

// CustomerSearchRequest represents the customer lookup query
type CustomerSearchRequest struct {
	Query string `form:"q"`
}

// CreateCustomerRequest represents a loyalty member registration.
// Field rules are enforced by the service so the UI gets its own messages.
type CreateCustomerRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email_address"`
	PhoneNumber string `json:"phone_number"`
	DateOfBirth string `json:"dob"`
}
