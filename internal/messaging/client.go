// Package messaging provides the client for the outbound message dispatcher.
// Dispatch is fire-and-forget from the caller's perspective; failures are
// logged by the caller, never propagated into the ticket workflow.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"campaign_bridge_backend/internal/ticketing"
	"campaign_bridge_backend/internal/workflow/transport"
	"campaign_bridge_backend/platform/config"
	"campaign_bridge_backend/platform/logger"
	"campaign_bridge_backend/platform/phone"
)

// CompanyRef identifies the sending company on an outbound message.
type CompanyRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// ChannelRef identifies the channel an outbound message goes through.
type ChannelRef struct {
	ID       int    `json:"id"`
	Token    string `json:"token"`
	IDBroker int64  `json:"id_broker"`
}

// Payload is the outbound message envelope.
type Payload struct {
	Company    CompanyRef              `json:"company"`
	TenantID   string                  `json:"id_tenant"`
	Ticket     ticketing.Ticket        `json:"ticket"`
	CRM        transport.CRMDescriptor `json:"crm"`
	Message    string                  `json:"message"`
	Contact    string                  `json:"contact"`
	IDUser     int64                   `json:"id_user"`
	Channel    ChannelRef              `json:"channel"`
	IDWorkflow int64                   `json:"id_workflow"`
	HSM        bool                    `json:"hsm"`
}

// Client calls the message dispatch service.
type Client struct {
	baseURL string
	apiKey  string
	region  string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a message dispatch client. Returns nil when the
// dispatcher URL is not configured.
func NewClient(cfg config.MessagingConfig, log *logger.Logger) *Client {
	if cfg.GetMessagingURL() == "" {
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetMessagingURL(), "/"),
		apiKey:  cfg.GetMessagingKey(),
		region:  cfg.GetPhoneRegion(),
		http:    &http.Client{Timeout: cfg.GetExternalTimeout()},
		log:     log,
	}
}

// SendMessage submits one outbound message. The contact is normalized to
// E.164 in the configured default region before dispatch.
func (c *Client) SendMessage(ctx context.Context, p Payload) error {
	if c == nil {
		return nil
	}

	p.Contact = phone.NormalizeE164(p.Contact, c.region)

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("message dispatch failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("message dispatcher returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("message dispatched", "company", p.Company.Token, "channel", p.Channel.ID)
	return nil
}
