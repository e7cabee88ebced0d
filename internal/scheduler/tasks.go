package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"campaign_bridge_backend/internal/workflow/transport"
)

// TaskCampaignCreateTicket is one per-lead ticket-creation work item.
const TaskCampaignCreateTicket = "campaign_create_ticket"

// TaskCampaignUpdateStatus is the batch-finished status transition enqueued
// after all per-lead items of a batch.
const TaskCampaignUpdateStatus = "campaign_update_status"

// NewCampaignCreateTicketTask builds a per-lead work item task.
func NewCampaignCreateTicketTask(payload transport.CreateTicketData) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCampaignCreateTicket, data), nil
}

// ParseCampaignCreateTicketPayload decodes a per-lead work item task.
func ParseCampaignCreateTicketPayload(task *asynq.Task) (transport.CreateTicketData, error) {
	var payload transport.CreateTicketData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return transport.CreateTicketData{}, err
	}
	return payload, nil
}

// NewCampaignUpdateStatusTask builds a campaign status transition task.
func NewCampaignUpdateStatusTask(payload transport.UpdateStatusData) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCampaignUpdateStatus, data), nil
}

// ParseCampaignUpdateStatusPayload decodes a campaign status transition task.
func ParseCampaignUpdateStatusPayload(task *asynq.Task) (transport.UpdateStatusData, error) {
	var payload transport.UpdateStatusData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return transport.UpdateStatusData{}, err
	}
	return payload, nil
}
