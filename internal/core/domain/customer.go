package domain

import "time"

// CustomerType is the commercial tier of a customer.
type CustomerType string

const (
	CustomerRegular CustomerType = "REGULAR"
	CustomerPremium CustomerType = "PREMIUM"
	CustomerVIP     CustomerType = "VIP"
)

// AllCustomerTypes is the fixed enumeration order used for chart axes.
var AllCustomerTypes = [...]CustomerType{CustomerRegular, CustomerPremium, CustomerVIP}

// Valid reports whether t is one of the enumerated customer types.
func (t CustomerType) Valid() bool {
	for _, known := range AllCustomerTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Customer is a read-only copy of a customer record owned by the CRM API.
type Customer struct {
	ID               int64        `json:"id"`
	FirstName        string       `json:"firstName"`
	LastName         string       `json:"lastName"`
	Email            string       `json:"email"`
	PhoneNumber      string       `json:"phoneNumber,omitempty"`
	CustomerType     CustomerType `json:"customerType"`
	RegistrationDate string       `json:"registrationDate,omitempty"`
}

// NewCustomer carries the registration form fields sent to the CRM API.
type NewCustomer struct {
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Email        string       `json:"email"`
	PhoneNumber  string       `json:"phoneNumber,omitempty"`
	CustomerType CustomerType `json:"customerType"`
}

// Page is one page of the paginated customer listing.
type Page struct {
	Items      []Customer `json:"items"`
	Page       int        `json:"page"`
	Size       int        `json:"size"`
	TotalItems int64      `json:"total_items"`
	TotalPages int        `json:"total_pages"`
}

// CustomerDetail is a customer together with its interaction history.
type CustomerDetail struct {
	Customer     Customer      `json:"customer"`
	Interactions []Interaction `json:"interactions"`
	FetchedAt    time.Time     `json:"fetched_at"`
}
