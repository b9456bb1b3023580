package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/crmsystem/console-api/internal/core/domain"
	"github.com/crmsystem/console-api/internal/core/ports"
)

const defaultFanOut = 8

// customerInteractions pairs a customer with its fetched interactions.
type customerInteractions struct {
	customer     domain.Customer
	interactions []domain.Interaction
}

// fetchInteractions issues one interaction fetch per customer with at most
// limit calls in flight. It returns only once every fetch has settled, and
// returns nothing but the first error if any fetch failed.
func fetchInteractions(ctx context.Context, customers []domain.Customer, fetcher ports.InteractionFetcher, limit int) ([]customerInteractions, error) {
	if limit <= 0 {
		limit = defaultFanOut
	}
	out := make([]customerInteractions, len(customers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, c := range customers {
		g.Go(func() error {
			list, err := fetcher.ListInteractions(gctx, c.ID)
			if err != nil {
				return fmt.Errorf("interactions of customer %d: %w", c.ID, err)
			}
			out[i] = customerInteractions{customer: c, interactions: list}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// tallyInteractionTypes counts interactions per type with the open/resolved
// split. Types outside the enumeration are ignored; statuses outside it only
// count towards Total.
func tallyInteractionTypes(rows []customerInteractions) domain.InteractionSummary {
	summary := make(domain.InteractionSummary, len(domain.AllInteractionTypes))
	index := make(map[domain.InteractionType]int, len(domain.AllInteractionTypes))
	for i, t := range domain.AllInteractionTypes {
		summary[i] = domain.InteractionBucket{Type: t}
		index[t] = i
	}

	for _, row := range rows {
		for _, in := range row.interactions {
			i, ok := index[in.InteractionType]
			if !ok {
				continue
			}
			b := &summary[i]
			b.Total++
			switch {
			case in.Status.IsOpen():
				b.Open++
			case in.Status.IsResolved():
				b.Resolved++
			}
		}
	}
	return summary
}

// tallyCustomerTypes counts customers per type, split by whether they have
// any interaction at all.
func tallyCustomerTypes(rows []customerInteractions) domain.CustomerTypeSummary {
	summary := make(domain.CustomerTypeSummary, len(domain.AllCustomerTypes))
	index := make(map[domain.CustomerType]int, len(domain.AllCustomerTypes))
	for i, t := range domain.AllCustomerTypes {
		summary[i] = domain.CustomerTypeBucket{Type: t}
		index[t] = i
	}

	for _, row := range rows {
		i, ok := index[row.customer.CustomerType]
		if !ok {
			continue
		}
		b := &summary[i]
		b.Total++
		if len(row.interactions) > 0 {
			b.WithInteractions++
		} else {
			b.WithoutInteractions++
		}
	}
	return summary
}

// AggregateByInteractionType fetches every customer's interactions and counts
// them per interaction type. Every type is present in the result, in
// enumeration order. On any fetch failure no summary is returned.
func AggregateByInteractionType(ctx context.Context, customers []domain.Customer, fetcher ports.InteractionFetcher) (domain.InteractionSummary, error) {
	rows, err := fetchInteractions(ctx, customers, fetcher, defaultFanOut)
	if err != nil {
		return nil, err
	}
	return tallyInteractionTypes(rows), nil
}

// AggregateByCustomerType counts customers per customer type and whether they
// have interactions. Every type is present in the result, in enumeration
// order. On any fetch failure no summary is returned.
func AggregateByCustomerType(ctx context.Context, customers []domain.Customer, fetcher ports.InteractionFetcher) (domain.CustomerTypeSummary, error) {
	rows, err := fetchInteractions(ctx, customers, fetcher, defaultFanOut)
	if err != nil {
		return nil, err
	}
	return tallyCustomerTypes(rows), nil
}
