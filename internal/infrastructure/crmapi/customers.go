package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/crmsystem/console-api/internal/core/domain"
)

// springPage mirrors the page envelope the CRM API returns for paged listings.
type springPage struct {
	Content       []domain.Customer `json:"content"`
	Number        int               `json:"number"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

// ListAllCustomers returns the unpaginated customer snapshot.
func (c *Client) ListAllCustomers(ctx context.Context) ([]domain.Customer, error) {
	var out []domain.Customer
	if err := c.do(ctx, "list_all_customers", http.MethodGet, "/api/customers/getAllCustomersSimple", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Customer{}
	}
	return out, nil
}

// ListCustomersPage returns one page of customers. page is 0-based. The CRM
// API answers either with a page envelope or with the whole list as a plain
// array; an array is paged here.
func (c *Client) ListCustomersPage(ctx context.Context, page, size int) (*domain.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	path := "/api/customers?" + q.Encode()

	var raw json.RawMessage
	if err := c.do(ctx, "list_customers_page", http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var all []domain.Customer
		if err := json.Unmarshal(trimmed, &all); err != nil {
			return nil, fmt.Errorf("GET %s: decode list: %w", path, errors.Join(domain.ErrFetchFailed, err))
		}
		return pageOf(all, page, size), nil
	}

	var sp springPage
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &sp); err != nil {
			return nil, fmt.Errorf("GET %s: decode page: %w", path, errors.Join(domain.ErrFetchFailed, err))
		}
	}
	if sp.Content == nil {
		sp.Content = []domain.Customer{}
	}
	return &domain.Page{
		Items:      sp.Content,
		Page:       sp.Number,
		Size:       sp.Size,
		TotalItems: sp.TotalElements,
		TotalPages: sp.TotalPages,
	}, nil
}

// pageOf slices one page out of a full customer list.
func pageOf(all []domain.Customer, page, size int) *domain.Page {
	if page < 0 {
		page = 0
	}
	total := len(all)
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}

	items := []domain.Customer{}
	if size > 0 {
		start := page * size
		if start < total {
			end := min(start+size, total)
			items = all[start:end]
		}
	}
	return &domain.Page{
		Items:      items,
		Page:       page,
		Size:       size,
		TotalItems: int64(total),
		TotalPages: pages,
	}
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var out domain.Customer
	err := c.do(ctx, "get_customer", http.MethodGet, fmt.Sprintf("/api/customers/%d", id), nil, &out)
	if isStatus(err, http.StatusNotFound) {
		return nil, fmt.Errorf("customer %d: %w", id, domain.ErrCustomerNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, "create_customer", http.MethodPost, "/api/customers/addCustomer", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	err := c.do(ctx, "delete_customer", http.MethodDelete, fmt.Sprintf("/api/customers/%d", id), nil, nil)
	if isStatus(err, http.StatusNotFound) {
		return fmt.Errorf("customer %d: %w", id, domain.ErrCustomerNotFound)
	}
	return err
}
