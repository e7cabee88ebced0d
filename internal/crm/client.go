// Package crm provides the client for the CRM manager service: template
// resolution and JSON record creation.
package crm

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

// Template identifies a CRM template and the table it maps to.
type Template struct {
	ID    string `json:"id"`
	Table string `json:"table"`
}

// RecordInput is the body for creating one JSON record.
type RecordInput struct {
	TemplateID string         `json:"id_template"`
	Data       map[string]any `json:"data"`
	CreatedBy  int64          `json:"created_by"`
}

// Record is a created CRM record. Only the generated id is read back here.
type Record struct {
	ID string `json:"id"`
}

// ErrNotConfigured is returned by every method of a nil Client.
var ErrNotConfigured = errors.New("crm manager not configured")

// Client calls the CRM manager service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a CRM manager client. Returns nil when the manager URL
// is not configured.
func NewClient(cfg config.CRMManagerConfig, log *logger.Logger) *Client {
	if cfg.GetCRMManagerURL() == "" {
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetCRMManagerURL(), "/"),
		apiKey:  cfg.GetCRMManagerKey(),
		http:    &http.Client{Timeout: cfg.GetExternalTimeout()},
		log:     log,
	}
}

// GetPrincipalTemplateByCustomer resolves the principal customer template
// for a company and tenant.
func (c *Client) GetPrincipalTemplateByCustomer(ctx context.Context, company, tenant string) (Template, error) {
	if c == nil {
		return Template{}, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/templates/principal?company=%s", c.baseURL, url.QueryEscape(company))

	var out Template
	if err := c.do(ctx, http.MethodGet, endpoint, tenant, nil, &out); err != nil {
		return Template{}, err
	}
	return out, nil
}

// CreateSingleJSON creates one JSON record and returns it with its
// generated id.
func (c *Client) CreateSingleJSON(ctx context.Context, company, tenant string, in RecordInput) (Record, error) {
	if c == nil {
		return Record{}, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/records/single-json?company=%s", c.baseURL, url.QueryEscape(company))

	var out Record
	if err := c.do(ctx, http.MethodPost, endpoint, tenant, in, &out); err != nil {
		return Record{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, tenant string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal crm request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", tenant)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("crm manager request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("crm manager returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode crm response: %w", err)
	}

	return nil
}
