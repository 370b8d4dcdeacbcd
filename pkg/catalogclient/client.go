package catalogclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor is the catalog's public view of a doctor.
type Doctor struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	Rating         float64   `json:"rating"`
}

// Medicine is the catalog's public view of a medicine. Price is the current
// catalog price and changes over time.
type Medicine struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	Dosage               string          `json:"dosage"`
	Price                decimal.Decimal `json:"price"`
	RequiresPrescription bool            `json:"requires_prescription"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(catalogServiceURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(catalogServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	var d Doctor
	if err := c.get(ctx, "/catalog/doctors/"+id.String(), &d); err != nil {
		return nil, fmt.Errorf("doctor %s: %w", id, err)
	}
	return &d, nil
}

func (c *Client) GetMedicine(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	var m Medicine
	if err := c.get(ctx, "/catalog/medicines/"+id.String(), &m); err != nil {
		return nil, fmt.Errorf("medicine %s: %w", id, err)
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperr.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("catalog responded with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
