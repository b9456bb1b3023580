package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/crmsystem/console-api/internal/core/domain"
)

func TestAggregate_SingleVIPCustomer(t *testing.T) {
	crm := newStubCRM()
	crm.addCustomer(1, domain.CustomerVIP, interaction(domain.InteractionPurchase, domain.StatusOpen))
	ctx := context.Background()

	byInteraction, err := AggregateByInteractionType(ctx, crm.customers, crm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantInteractions := domain.InteractionSummary{
		{Type: domain.InteractionPurchase, Total: 1, Open: 1},
		{Type: domain.InteractionInquiry},
		{Type: domain.InteractionReturn},
	}
	if !reflect.DeepEqual(byInteraction, wantInteractions) {
		t.Errorf("interaction buckets = %+v, want %+v", byInteraction, wantInteractions)
	}

	byCustomer, err := AggregateByCustomerType(ctx, crm.customers, crm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantCustomers := domain.CustomerTypeSummary{
		{Type: domain.CustomerRegular},
		{Type: domain.CustomerPremium},
		{Type: domain.CustomerVIP, Total: 1, WithInteractions: 1},
	}
	if !reflect.DeepEqual(byCustomer, wantCustomers) {
		t.Errorf("customer buckets = %+v, want %+v", byCustomer, wantCustomers)
	}
}

func TestAggregate_EmptyCollectionIsZeroFilled(t *testing.T) {
	crm := newStubCRM()
	ctx := context.Background()

	byInteraction, err := AggregateByInteractionType(ctx, nil, crm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byInteraction) != len(domain.AllInteractionTypes) {
		t.Fatalf("expected %d interaction buckets, got %d", len(domain.AllInteractionTypes), len(byInteraction))
	}
	for i, b := range byInteraction {
		if b.Type != domain.AllInteractionTypes[i] {
			t.Errorf("bucket %d is %s, want %s", i, b.Type, domain.AllInteractionTypes[i])
		}
		if b.Total != 0 || b.Open != 0 || b.Resolved != 0 {
			t.Errorf("bucket %s not zero: %+v", b.Type, b)
		}
	}

	byCustomer, err := AggregateByCustomerType(ctx, nil, crm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byCustomer) != len(domain.AllCustomerTypes) {
		t.Fatalf("expected %d customer buckets, got %d", len(domain.AllCustomerTypes), len(byCustomer))
	}
	for i, b := range byCustomer {
		if b.Type != domain.AllCustomerTypes[i] {
			t.Errorf("bucket %d is %s, want %s", i, b.Type, domain.AllCustomerTypes[i])
		}
		if b.Total != 0 || b.WithInteractions != 0 || b.WithoutInteractions != 0 {
			t.Errorf("bucket %s not zero: %+v", b.Type, b)
		}
	}
	if crm.calls.Load() != 0 {
		t.Errorf("expected no interaction fetches, got %d", crm.calls.Load())
	}
}

func TestAggregate_OneFailedFetchFailsThePass(t *testing.T) {
	crm := newStubCRM()
	for id := int64(1); id <= 5; id++ {
		crm.addCustomer(id, domain.CustomerRegular, interaction(domain.InteractionInquiry, domain.StatusResolved))
	}
	crm.failFor[3] = &domain.APIError{Method: "GET", Path: "/api/customers/3/interactions", Status: 500}
	ctx := context.Background()

	byInteraction, err := AggregateByInteractionType(ctx, crm.customers, crm)
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if byInteraction != nil {
		t.Errorf("expected no buckets on failure, got %+v", byInteraction)
	}

	byCustomer, err := AggregateByCustomerType(ctx, crm.customers, crm)
	if err == nil {
		t.Fatal("expected error")
	}
	if byCustomer != nil {
		t.Errorf("expected no buckets on failure, got %+v", byCustomer)
	}
}

func TestAggregate_StatusSplit(t *testing.T) {
	crm := newStubCRM()
	crm.addCustomer(1, domain.CustomerPremium,
		interaction(domain.InteractionReturn, domain.StatusOpen),
		interaction(domain.InteractionReturn, domain.StatusInProgress),
		interaction(domain.InteractionReturn, domain.StatusResolved),
		interaction(domain.InteractionReturn, domain.StatusClosed),
		interaction(domain.InteractionReturn, "ESCALATED"),
		interaction("COMPLAINT", domain.StatusOpen),
	)

	summary, err := AggregateByInteractionType(context.Background(), crm.customers, crm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ret, ok := summary.Bucket(domain.InteractionReturn)
	if !ok {
		t.Fatal("RETURN bucket missing")
	}
	if ret.Total != 5 || ret.Open != 2 || ret.Resolved != 2 {
		t.Errorf("RETURN bucket = %+v, want total 5 open 2 resolved 2", ret)
	}
	if len(summary) != len(domain.AllInteractionTypes) {
		t.Errorf("unknown interaction type must not add a bucket: %+v", summary)
	}
}

func TestAggregate_CustomerSubCountsPartitionTotal(t *testing.T) {
	crm := newStubCRM()
	crm.addCustomer(1, domain.CustomerRegular)
	crm.addCustomer(2, domain.CustomerRegular, interaction(domain.InteractionPurchase, domain.StatusClosed))
	crm.addCustomer(3, domain.CustomerPremium)
	crm.addCustomer(4, domain.CustomerVIP,
		interaction(domain.InteractionInquiry, domain.StatusOpen),
		interaction(domain.InteractionPurchase, domain.StatusOpen),
	)
	crm.addCustomer(5, domain.CustomerRegular, interaction(domain.InteractionReturn, domain.StatusResolved))

	summary, err := AggregateByCustomerType(context.Background(), crm.customers, crm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, b := range summary {
		if b.WithInteractions+b.WithoutInteractions != b.Total {
			t.Errorf("bucket %s does not partition: %+v", b.Type, b)
		}
	}
	regular, _ := summary.Bucket(domain.CustomerRegular)
	if regular.Total != 3 || regular.WithInteractions != 2 || regular.WithoutInteractions != 1 {
		t.Errorf("REGULAR bucket = %+v", regular)
	}
	if got := crm.calls.Load(); got != 5 {
		t.Errorf("expected one interaction fetch per customer, got %d", got)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	crm := newStubCRM()
	crm.addCustomer(1, domain.CustomerVIP, interaction(domain.InteractionPurchase, domain.StatusOpen))
	crm.addCustomer(2, domain.CustomerRegular, interaction(domain.InteractionInquiry, domain.StatusClosed))
	crm.addCustomer(3, domain.CustomerPremium)
	ctx := context.Background()

	first, err := AggregateByInteractionType(ctx, crm.customers, crm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := AggregateByInteractionType(ctx, crm.customers, crm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated aggregation differs: %+v vs %+v", first, second)
	}

	a, _ := AggregateByCustomerType(ctx, crm.customers, crm)
	b, _ := AggregateByCustomerType(ctx, crm.customers, crm)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated aggregation differs: %+v vs %+v", a, b)
	}
}
