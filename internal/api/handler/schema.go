package handler

import (
	"time"

	"github.com/crmsystem/console-api/internal/core/domain"
	"github.com/crmsystem/console-api/internal/core/ports"
)

// --- Session ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Identity  domain.Identity `json:"identity"`
	Message   string          `json:"message"`
}

type registerRequest struct {
	Username string      `json:"username" validate:"required,max=50"`
	Email    string      `json:"email"    validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Role     domain.Role `json:"role"     validate:"required,oneof=ADMIN SALES_REP ANALYST"`
}

func (r registerRequest) toDomain() domain.Registration {
	return domain.Registration{Username: r.Username, Email: r.Email, Password: r.Password, Role: r.Role}
}

type registerResponse struct {
	Message  string          `json:"message"`
	Identity domain.Identity `json:"identity"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Identity      *domain.Identity `json:"identity,omitempty"`
}

// --- Permissions ---

type permissionsResponse struct {
	Identity    *domain.Identity           `json:"identity"`
	Permissions map[domain.Permission]bool `json:"permissions"`
}

// --- Customers ---

type createCustomerRequest struct {
	FirstName    string `json:"firstName"    validate:"required,max=100"`
	LastName     string `json:"lastName"     validate:"required,max=100"`
	Email        string `json:"email"        validate:"required,email"`
	PhoneNumber  string `json:"phoneNumber"  validate:"omitempty,max=30"`
	CustomerType string `json:"customerType" validate:"required,oneof=REGULAR PREMIUM VIP"`
}

func (r createCustomerRequest) toDomain() domain.NewCustomer {
	return domain.NewCustomer{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		CustomerType: domain.CustomerType(r.CustomerType),
	}
}

type interactionRequest struct {
	InteractionType string `json:"interactionType" validate:"required,oneof=PURCHASE INQUIRY RETURN"`
	Description     string `json:"description"     validate:"required,max=1000"`
	Status          string `json:"status"          validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
}

func (r interactionRequest) toDomain(customerID int64) domain.InteractionInput {
	return domain.InteractionInput{
		CustomerID:      customerID,
		InteractionType: domain.InteractionType(r.InteractionType),
		Description:     r.Description,
		Status:          domain.InteractionStatus(r.Status),
	}
}

type updateInteractionRequest struct {
	CustomerID int64 `json:"customerId" validate:"omitempty,gt=0"`
	interactionRequest
}

// --- Analytics ---

type analyticsResponse struct {
	State         ports.BoardState           `json:"state"`
	Generation    uint64                     `json:"generation"`
	Interactions  domain.InteractionSummary  `json:"interactions,omitempty"`
	CustomerTypes domain.CustomerTypeSummary `json:"customer_types,omitempty"`
	CustomerCount int                        `json:"customer_count"`
	CompletedAt   *time.Time                 `json:"completed_at,omitempty"`
}

type refreshResponse struct {
	Generation uint64 `json:"generation"`
}

// customerListResponse is a drill-down list. The bucket fields carry the chart
// counts of the last committed pass for the same category; they are absent
// until a pass has committed.
type customerListResponse struct {
	Category           string                     `json:"category"`
	Count              int                        `json:"count"`
	Items              []domain.Customer          `json:"items"`
	InteractionBucket  *domain.InteractionBucket  `json:"interaction_bucket,omitempty"`
	CustomerTypeBucket *domain.CustomerTypeBucket `json:"customer_type_bucket,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
