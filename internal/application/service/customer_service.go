package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sangkips/pos-terminal/internal/domain/checkout"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/terminal"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/debounce"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// CustomerService handles loyalty member lookup, registration and selection
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// SearchResult is the outcome of a debounced customer search. A superseded
// search carries no customers; the newer request answers instead.
type SearchResult struct {
	Query      string            `json:"query"`
	Customers  []entity.Customer `json:"customers"`
	Superseded bool              `json:"superseded"`
}

// Search waits out the terminal's quiet period and then queries the backend.
// A blank query returns no customers without calling the backend.
func (s *CustomerService) Search(ctx context.Context, term *terminal.Terminal, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	result := &SearchResult{Query: query, Customers: []entity.Customer{}}

	if err := term.Search().Wait(ctx); err != nil {
		if errors.Is(err, debounce.ErrSuperseded) || errors.Is(err, debounce.ErrStopped) {
			result.Superseded = true
			return result, nil
		}
		return nil, err
	}
	if query == "" {
		return result, nil
	}

	customers, err := s.customerRepo.SearchCustomers(ctx, term.Backend(), query)
	if err != nil {
		return nil, err
	}
	term.RememberCustomers(customers...)
	result.Customers = customers
	return result, nil
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	FullName    string
	Email       string
	Phone       string
	DateOfBirth string
}

// CreateCustomer registers a member and selects them for the current sale
// with a zero points balance.
func (s *CustomerService) CreateCustomer(ctx context.Context, term *terminal.Terminal, input *CreateCustomerInput) (*entity.Customer, error) {
	in := entity.NewCustomer{
		FullName:    strings.TrimSpace(input.FullName),
		Email:       strings.TrimSpace(input.Email),
		PhoneNumber: strings.TrimSpace(input.Phone),
		DateOfBirth: strings.TrimSpace(input.DateOfBirth),
	}

	var fieldErrors []apperror.FieldError
	if in.FullName == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "full_name", Message: "Full Name and Phone are required."})
	}
	if in.PhoneNumber == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "phone_number", Message: "Full Name and Phone are required."})
	}
	if in.Email != "" && !emailPattern.MatchString(in.Email) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email_address", Message: "Invalid email format."})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if err := s.customerRepo.CreateCustomer(ctx, term.Backend(), in); err != nil {
		return nil, err
	}

	customer := entity.Customer{
		ID:       in.PhoneNumber,
		FullName: in.FullName,
		Phone:    in.PhoneNumber,
		Email:    in.Email,
	}
	term.RememberCustomers(customer)
	_ = term.Do(func(sess *checkout.Session) error {
		sess.SelectCustomer(customer)
		return nil
	})
	return &customer, nil
}

// SelectCustomer makes a previously looked-up customer the customer of the
// current sale. The walk-in placeholder can always be selected.
func (s *CustomerService) SelectCustomer(term *terminal.Terminal, ref string) (*entity.Customer, error) {
	ref = strings.TrimSpace(ref)

	var customer entity.Customer
	switch {
	case ref == entity.WalkInCustomerName:
		customer = entity.Customer{ID: entity.WalkInCustomerName, FullName: entity.WalkInCustomerName}
	default:
		c, ok := term.RecentCustomer(ref)
		if !ok {
			return nil, apperror.NewNotFoundError("Customer")
		}
		customer = c
	}

	_ = term.Do(func(sess *checkout.Session) error {
		sess.SelectCustomer(customer)
		return nil
	})
	return &customer, nil
}

// ClearCustomer deselects the customer and drops any points redemption
func (s *CustomerService) ClearCustomer(term *terminal.Terminal) {
	_ = term.Do(func(sess *checkout.Session) error {
		sess.ClearCustomer()
		return nil
	})
}
