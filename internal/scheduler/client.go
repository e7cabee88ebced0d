package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"campaign_bridge_backend/internal/workflow/transport"
	"campaign_bridge_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues campaign work items on the Redis-backed task queue.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates a queue client from the queue configuration.
func NewClient(cfg config.QueueConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

// Close releases the underlying asynq client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueCreateTicket enqueues one per-lead ticket-creation work item.
func (c *Client) EnqueueCreateTicket(ctx context.Context, data transport.CreateTicketData) error {
	task, err := NewCampaignCreateTicketTask(data)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// EnqueueCreateTicketDelayed enqueues a per-lead work item for delivery
// after the given delay.
func (c *Client) EnqueueCreateTicketDelayed(ctx context.Context, data transport.CreateTicketData, delay time.Duration) error {
	task, err := NewCampaignCreateTicketTask(data)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.ProcessIn(delay))
	return err
}

// EnqueueStatusUpdate enqueues a campaign version status transition.
func (c *Client) EnqueueStatusUpdate(ctx context.Context, data transport.UpdateStatusData) error {
	task, err := NewCampaignUpdateStatusTask(data)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
