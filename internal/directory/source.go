package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"customer-nav/internal/models"
)

// Source produces the customer listing.
type Source interface {
	Customers(ctx context.Context) ([]models.Customer, error)
}

// HTTPSource reads the listing from a GET <BaseURL>/api/customers endpoint.
type HTTPSource struct {
	BaseURL    string
	httpClient *http.Client
}

// NewHTTPSource builds a source for baseURL. A zero timeout leaves the request
// bounded only by the caller's context.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Customers(ctx context.Context) ([]models.Customer, error) {
	url := s.BaseURL + "/api/customers"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	var customers []models.Customer
	if err := json.NewDecoder(resp.Body).Decode(&customers); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}
	return customers, nil
}

// Lister is the read side of the customer store.
type Lister interface {
	List(ctx context.Context) ([]models.Customer, error)
}

// StoreSource reads the listing straight from the local store.
type StoreSource struct {
	Store Lister
}

func (s StoreSource) Customers(ctx context.Context) ([]models.Customer, error) {
	return s.Store.List(ctx)
}
