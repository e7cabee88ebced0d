// Package transport defines the data shapes exchanged with the workflow
// module: queue payloads, request DTOs, and responses.
package transport

import "time"

// CRMDescriptor links a lead to its CRM record for ticket association.
type CRMDescriptor struct {
	Template string `json:"template"`
	Table    string `json:"table"`
	Column   string `json:"column"`
	IDCRM    int64  `json:"id_crm"`
}

// MessageDescriptor describes the outbound message to send after a ticket
// is created. Its presence on CreateTicketData triggers dispatch.
type MessageDescriptor struct {
	Text string `json:"text"`
}

// NegotiationMain describes the main negotiation record. CustomerField and
// TicketField name the template fields that receive the CRM identity and the
// ticket sequence id.
type NegotiationMain struct {
	Template      string `json:"template"`
	CustomerField string `json:"customer_field"`
	TicketField   string `json:"ticket_field"`
}

// NegotiationChild describes one child record linked to the main record.
// When ForeignKeyField is set, the main record's generated id is injected
// under that field before submission.
type NegotiationChild struct {
	Template        string         `json:"template"`
	Values          map[string]any `json:"values"`
	ForeignKeyField string         `json:"fk_field,omitempty"`
}

// NegotiationData is the full negotiation descriptor carried on a
// ticket-creation work item.
type NegotiationData struct {
	Main     NegotiationMain    `json:"main"`
	Children []NegotiationChild `json:"children,omitempty"`
}

// CreateTicketData is the payload of one per-lead ticket-creation work item.
type CreateTicketData struct {
	Company           string             `json:"company"`
	TenantID          string             `json:"id_tenant"`
	IDPhase           string             `json:"id_phase"`
	IDCampaign        string             `json:"id_campaign"`
	IDCampaignVersion string             `json:"id_campaign_version"`
	IDWorkflow        int64              `json:"id_workflow"`
	Name              string             `json:"name"`
	Contact           string             `json:"contact"`
	EndDate           *time.Time         `json:"end_date,omitempty"`
	CRM               CRMDescriptor      `json:"crm"`
	Negotiation       *NegotiationData   `json:"negotiation,omitempty"`
	Message           *MessageDescriptor `json:"message,omitempty"`
	CampaignType      string             `json:"campaign_type"`
	CreatedBy         int64              `json:"created_by"`
	IgnoreOpenTickets bool               `json:"ignore_open_tickets"`
}

// UpdateStatusData is the payload of the batch-finished status transition
// enqueued after all per-lead items of a batch.
type UpdateStatusData struct {
	Company           string `json:"company"`
	IDCampaign        string `json:"id_campaign"`
	IDCampaignVersion string `json:"id_campaign_version"`
	Status            int    `json:"status"`
}

// Lead is the transient per-lead input of one fan-out call.
type Lead struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Message string `json:"message,omitempty"`
}

// FanOutInput carries the batch-level fields of one fan-out call.
type FanOutInput struct {
	Company           string
	TenantID          string
	IDPhase           string
	IDCampaign        string
	IDCampaignVersion string
	IDWorkflow        int64
	Leads             []Lead
	EndDate           *time.Time
	Negotiation       *NegotiationData
	CampaignType      string
	CreatedBy         int64
	IgnoreOpenTickets bool
	// DelayMS delays delivery of every per-lead work item by the given
	// number of milliseconds. Zero publishes immediately.
	DelayMS int64
}

// DispatchRequest is the HTTP body for triggering a campaign fan-out.
type DispatchRequest struct {
	IDPhase           string           `json:"id_phase" validate:"required,uuid4"`
	IDCampaignVersion string           `json:"id_campaign_version" validate:"required,uuid4"`
	IDWorkflow        int64            `json:"id_workflow" validate:"required"`
	Leads             []Lead           `json:"leads" validate:"required,min=1,dive"`
	EndDate           *time.Time       `json:"end_date,omitempty"`
	Negotiation       *NegotiationData `json:"negotiation,omitempty"`
	CampaignType      string           `json:"campaign_type" validate:"required,oneof=crm manual"`
	CreatedBy         int64            `json:"created_by"`
	IgnoreOpenTickets bool             `json:"ignore_open_tickets"`
	DelayMS           int64            `json:"delay_ms,omitempty" validate:"omitempty,gte=0"`
}

// DispatchResponse reports how many work items were enqueued.
type DispatchResponse struct {
	Enqueued int      `json:"enqueued"`
	Failed   []string `json:"failed,omitempty"`
}

// ResolveWorkflowRequest is the HTTP body for workflow id resolution.
type ResolveWorkflowRequest struct {
	IDWorkflow string `json:"id_workflow" validate:"required,uuid4"`
}

// ResolveWorkflowResponse carries the internal workflow id.
type ResolveWorkflowResponse struct {
	ID int64 `json:"id"`
}
