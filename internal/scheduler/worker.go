package scheduler

import (
	"context"
	"fmt"

	"campaign_bridge_backend/internal/workflow/service"
	"campaign_bridge_backend/platform/config"
	"campaign_bridge_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes campaign work items and drives the ticket workflow.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	svc    *service.Service
	log    *logger.Logger
}

// NewWorker creates the queue consumer bound to the workflow service.
func NewWorker(cfg config.QueueConfig, svc *service.Service, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetQueueConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		svc:    svc,
		log:    log,
	}

	mux.HandleFunc(TaskCampaignCreateTicket, w.handleCreateTicket)
	mux.HandleFunc(TaskCampaignUpdateStatus, w.handleUpdateStatus)

	return w, nil
}

func (w *Worker) handleCreateTicket(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCampaignCreateTicketPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %w", asynq.SkipRetry, err)
	}

	outcome, err := w.svc.CreateTicket(ctx, payload)
	if err != nil {
		w.log.QueueError(TaskCampaignCreateTicket, err)
		return err
	}

	w.log.Info("ticket work item processed",
		"outcome", outcome.String(),
		"campaign_version", payload.IDCampaignVersion,
		"company", payload.Company,
	)
	return nil
}

func (w *Worker) handleUpdateStatus(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCampaignUpdateStatusPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %w", asynq.SkipRetry, err)
	}

	if err := w.svc.UpdateCampaignStatus(ctx, payload.IDCampaignVersion, payload.Status); err != nil {
		w.log.QueueError(TaskCampaignUpdateStatus, err)
		return err
	}

	w.log.Info("campaign status updated",
		"campaign_version", payload.IDCampaignVersion,
		"status", payload.Status,
	)
	return nil
}

// Run serves the queue until the context is canceled, then drains in-flight
// tasks and waits for detached workflow tasks to settle.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("queue worker stopped", "error", err)
	}

	w.svc.Wait()
}
