package domain

import "time"

// InteractionBucket counts interactions of one type. Open and Resolved never
// exceed Total; statuses outside the four known values only count in Total.
type InteractionBucket struct {
	Type     InteractionType `json:"type"`
	Total    int             `json:"total"`
	Open     int             `json:"open"`
	Resolved int             `json:"resolved"`
}

// InteractionSummary holds one bucket per InteractionType, in AllInteractionTypes order.
type InteractionSummary []InteractionBucket

// Bucket returns the bucket for t.
func (s InteractionSummary) Bucket(t InteractionType) (InteractionBucket, bool) {
	for _, b := range s {
		if b.Type == t {
			return b, true
		}
	}
	return InteractionBucket{}, false
}

// CustomerTypeBucket counts customers of one type. WithInteractions and
// WithoutInteractions always sum to Total.
type CustomerTypeBucket struct {
	Type                CustomerType `json:"type"`
	Total               int          `json:"total"`
	WithInteractions    int          `json:"with_interactions"`
	WithoutInteractions int          `json:"without_interactions"`
}

// CustomerTypeSummary holds one bucket per CustomerType, in AllCustomerTypes order.
type CustomerTypeSummary []CustomerTypeBucket

// Bucket returns the bucket for t.
func (s CustomerTypeSummary) Bucket(t CustomerType) (CustomerTypeBucket, bool) {
	for _, b := range s {
		if b.Type == t {
			return b, true
		}
	}
	return CustomerTypeBucket{}, false
}

// AnalyticsSnapshot is the complete output of one aggregation pass.
type AnalyticsSnapshot struct {
	Generation    uint64              `json:"generation"`
	Interactions  InteractionSummary  `json:"interactions"`
	CustomerTypes CustomerTypeSummary `json:"customer_types"`
	CustomerCount int                 `json:"customer_count"`
	StartedAt     time.Time           `json:"started_at"`
	CompletedAt   time.Time           `json:"completed_at"`
}
