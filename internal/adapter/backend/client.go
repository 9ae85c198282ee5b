// Package backend is the HTTP client of the remote property-management
// backend. Every endpoint answers with the uniform status envelope.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xiaot623/gogo/assistant/internal/domain"
)

// Client implements the ticket, document and image services over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a backend client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateTicket posts a ticket draft.
func (c *Client) CreateTicket(ctx context.Context, draft domain.TicketDraft) (*domain.Ticket, error) {
	var env domain.Envelope[*domain.Ticket]
	if err := c.do(ctx, http.MethodPost, "/api/tickets", draft, &env); err != nil {
		return nil, err
	}
	if env.Entity == nil {
		return nil, fmt.Errorf("%w: ticket missing from response", domain.ErrCollaborator)
	}
	return env.Entity, nil
}

// TenantTickets lists a tenant's tickets.
func (c *Client) TenantTickets(ctx context.Context, tenantID string) ([]domain.Ticket, error) {
	var env domain.Envelope[[]domain.Ticket]
	if err := c.do(ctx, http.MethodGet, "/api/tenants/"+url.PathEscape(tenantID)+"/tickets", nil, &env); err != nil {
		return nil, err
	}
	return env.Entity, nil
}

// TenantDocuments lists the documents shared with a tenant.
func (c *Client) TenantDocuments(ctx context.Context, tenantID string) ([]domain.Document, error) {
	var env domain.Envelope[[]domain.Document]
	if err := c.do(ctx, http.MethodGet, "/api/tenants/"+url.PathEscape(tenantID)+"/documents", nil, &env); err != nil {
		return nil, err
	}
	return env.Entity, nil
}

// PropertyDocuments lists the documents of a property.
func (c *Client) PropertyDocuments(ctx context.Context, propertyID string) ([]domain.Document, error) {
	var env domain.Envelope[[]domain.Document]
	if err := c.do(ctx, http.MethodGet, "/api/properties/"+url.PathEscape(propertyID)+"/documents", nil, &env); err != nil {
		return nil, err
	}
	return env.Entity, nil
}

// PropertyImages lists a landlord's property images. An empty propertyID
// lists images across all of the landlord's properties.
func (c *Client) PropertyImages(ctx context.Context, landlordID, propertyID string) ([]domain.Document, error) {
	path := "/api/landlords/" + url.PathEscape(landlordID) + "/images"
	if propertyID != "" {
		path = "/api/landlords/" + url.PathEscape(landlordID) + "/properties/" + url.PathEscape(propertyID) + "/images"
	}

	var env domain.Envelope[[]domain.Document]
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Entity, nil
}

// envelope is implemented by every domain.Envelope instantiation.
type envelope interface {
	Err() error
}

// do sends a request and decodes the envelope into out. A non-success status
// is reported as an error wrapping domain.ErrCollaborator, the same as a
// transport failure.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out envelope) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrCollaborator, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", domain.ErrCollaborator, err)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: backend error [%d]: %s", domain.ErrCollaborator, resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrCollaborator, err)
	}
	return out.Err()
}
