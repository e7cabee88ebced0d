// Package company provides the client for the company directory service.
package company

import (
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

// Company is a directory entry resolved by token.
type Company struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// ErrNotConfigured is returned by every method of a nil Client.
var ErrNotConfigured = errors.New("company directory not configured")

// Client calls the company directory service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a company directory client. Returns nil when the
// directory URL is not configured.
func NewClient(cfg config.CompanyServiceConfig, log *logger.Logger) *Client {
	if cfg.GetCompanyServiceURL() == "" {
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetCompanyServiceURL(), "/"),
		apiKey:  cfg.GetCompanyServiceKey(),
		http:    &http.Client{Timeout: cfg.GetExternalTimeout()},
		log:     log,
	}
}

// GetByToken resolves company details by its token.
func (c *Client) GetByToken(ctx context.Context, token string) (Company, error) {
	if c == nil {
		return Company{}, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/companies/token/%s", c.baseURL, url.PathEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Company{}, err
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Company{}, fmt.Errorf("company directory request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return Company{}, fmt.Errorf("company directory returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out Company
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Company{}, fmt.Errorf("decode company response: %w", err)
	}

	return out, nil
}
