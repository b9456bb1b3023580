package domain

// InteractionType classifies a customer interaction.
type InteractionType string

const (
	InteractionPurchase InteractionType = "PURCHASE"
	InteractionInquiry  InteractionType = "INQUIRY"
	InteractionReturn   InteractionType = "RETURN"
)

// AllInteractionTypes is the fixed enumeration order used for chart axes.
var AllInteractionTypes = [...]InteractionType{InteractionPurchase, InteractionInquiry, InteractionReturn}

// Valid reports whether t is one of the enumerated interaction types.
func (t InteractionType) Valid() bool {
	for _, known := range AllInteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// InteractionStatus is the lifecycle state of an interaction.
type InteractionStatus string

const (
	StatusOpen       InteractionStatus = "OPEN"
	StatusInProgress InteractionStatus = "IN_PROGRESS"
	StatusResolved   InteractionStatus = "RESOLVED"
	StatusClosed     InteractionStatus = "CLOSED"
)

// IsOpen reports whether the interaction still needs work.
func (s InteractionStatus) IsOpen() bool {
	return s == StatusOpen || s == StatusInProgress
}

// IsResolved reports whether the interaction has been dealt with.
func (s InteractionStatus) IsResolved() bool {
	return s == StatusResolved || s == StatusClosed
}

// Interaction is a read-only copy of an interaction owned by the CRM API.
type Interaction struct {
	ID              int64             `json:"id"`
	CustomerID      int64             `json:"customerId"`
	InteractionType InteractionType   `json:"interactionType"`
	Description     string            `json:"description"`
	Status          InteractionStatus `json:"status"`
	// InteractionDate is the API's local timestamp, passed through verbatim.
	InteractionDate string            `json:"interactionDate,omitempty"`
}

// InteractionInput carries the fields of the add/edit interaction form.
type InteractionInput struct {
	CustomerID      int64             `json:"customerId,omitempty"`
	InteractionType InteractionType   `json:"interactionType"`
	Description     string            `json:"description"`
	Status          InteractionStatus `json:"status"`
}
