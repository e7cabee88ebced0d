// Package events publishes campaign lifecycle events to company-scoped
// Redis pub/sub channels.
package events

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"campaign_bridge_backend/internal/ticketing"
	"campaign_bridge_backend/platform/config"
	"campaign_bridge_backend/platform/logger"
)

// EventCreateTicket is the event name emitted after a ticket is created.
const EventCreateTicket = "create_ticket"

// ChannelFor returns the event channel for a company.
func ChannelFor(companyName string) string {
	return fmt.Sprintf("campaign:events:%s", companyName)
}

type ticketCreatedEvent struct {
	Event  string           `json:"event"`
	Ticket ticketing.Ticket `json:"ticket"`
}

// Publisher emits events over Redis pub/sub.
type Publisher struct {
	rdb *redis.Client
	log *logger.Logger
}

// NewPublisher creates an event publisher on an existing Redis client.
func NewPublisher(rdb *redis.Client, log *logger.Logger) *Publisher {
	return &Publisher{rdb: rdb, log: log}
}

// PublishTicketCreated emits a ticket-created event on the company's
// channel, carrying the full ticket object as received from the ticketing
// service.
func (p *Publisher) PublishTicketCreated(ctx context.Context, companyName string, ticket ticketing.Ticket) error {
	payload, err := json.Marshal(ticketCreatedEvent{Event: EventCreateTicket, Ticket: ticket})
	if err != nil {
		return fmt.Errorf("marshal ticket created event: %w", err)
	}

	if err := p.rdb.Publish(ctx, ChannelFor(companyName), payload).Err(); err != nil {
		return fmt.Errorf("publish ticket created event: %w", err)
	}

	return nil
}

// NewRedisClient builds a Redis client from the queue configuration.
func NewRedisClient(cfg config.QueueConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		} else {
			opt.TLSConfig.InsecureSkipVerify = true
		}
	}

	return redis.NewClient(opt), nil
}
