// Package ticketing provides the client for the ticketing service: ticket
// creation, CRM customer linkage, and open-ticket queries.
package ticketing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"campaign_bridge_backend/platform/config"
	"campaign_bridge_backend/platform/logger"
)

// ErrNotConfigured is returned by every method of a nil Client.
var ErrNotConfigured = errors.New("ticketing service not configured")

// Descriptor is the fixed ticket descriptor sent on creation.
type Descriptor struct {
	Name        string `json:"name"`
	Channel     string `json:"channel"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Ticket is the ticketing service's creation result. Beyond id and id_seq
// the service returns arbitrary fields; those are retained verbatim so event
// payloads carry the full object.
type Ticket struct {
	ID    string
	IDSeq int64

	raw map[string]json.RawMessage
}

// UnmarshalJSON decodes the typed fields and keeps every field for
// re-serialization.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	if v, ok := m["id"]; ok {
		if err := json.Unmarshal(v, &t.ID); err != nil {
			return err
		}
	}
	if v, ok := m["id_seq"]; ok {
		if err := json.Unmarshal(v, &t.IDSeq); err != nil {
			return err
		}
	}

	t.raw = m
	return nil
}

// MarshalJSON re-emits the full object as received from the ticketing
// service, falling back to the typed fields for locally built values.
func (t Ticket) MarshalJSON() ([]byte, error) {
	if t.raw != nil {
		return json.Marshal(t.raw)
	}
	return json.Marshal(map[string]any{"id": t.ID, "id_seq": t.IDSeq})
}

// OpenTicket is one row of an open-ticket query.
type OpenTicket struct {
	ID   string `json:"id"`
	Open bool   `json:"open"`
}

// Client calls the ticketing service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a ticketing client. Returns nil when the ticketing URL
// is not configured.
func NewClient(cfg config.TicketingConfig, log *logger.Logger) *Client {
	if cfg.GetTicketingURL() == "" {
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetTicketingURL(), "/"),
		apiKey:  cfg.GetTicketingKey(),
		http:    &http.Client{Timeout: cfg.GetExternalTimeout()},
		log:     log,
	}
}

type createTicketRequest struct {
	Name    string     `json:"name"`
	IDPhase string     `json:"id_phase"`
	Ticket  Descriptor `json:"ticket"`
}

// CreateTicket creates a ticket for the company in the given phase.
func (c *Client) CreateTicket(ctx context.Context, company, name, phase string, desc Descriptor) (Ticket, error) {
	if c == nil {
		return Ticket{}, ErrNotConfigured
	}

	body := createTicketRequest{Name: name, IDPhase: phase, Ticket: desc}

	var out Ticket
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/tickets", company, body, &out); err != nil {
		return Ticket{}, err
	}
	return out, nil
}

type linkCustomerRequest struct {
	Template string `json:"template"`
	Table    string `json:"table"`
	Column   string `json:"column"`
	IDCRM    string `json:"id_crm"`
}

// LinkCustomer associates a ticket with a CRM record.
func (c *Client) LinkCustomer(ctx context.Context, company, ticketID, template, table, column, crmID string) error {
	if c == nil {
		return ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/tickets/%s/customer", c.baseURL, url.PathEscape(ticketID))
	body := linkCustomerRequest{Template: template, Table: table, Column: column, IDCRM: crmID}
	return c.do(ctx, http.MethodPost, endpoint, company, body, nil)
}

// CheckOpenTickets returns the tickets known for a CRM identity with their
// open flag. Matching is by CRM id only; tickets of unrelated tenants that
// share a CRM id will alias here.
func (c *Client) CheckOpenTickets(ctx context.Context, company string, crmID int64) ([]OpenTicket, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/tickets/open?id_crm=%d", c.baseURL, crmID)

	var out []OpenTicket
	if err := c.do(ctx, http.MethodGet, endpoint, company, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, company string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal ticketing request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Company-Token", company)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ticketing request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ticketing returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ticketing response: %w", err)
	}

	return nil
}
