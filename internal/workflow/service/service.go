// Package service implements the campaign-to-ticket workflow: per-lead
// ticket orchestration, batch fan-out, negotiation recording, and workflow
// id resolution.
package service

import (
	"context"
	"sync"
	"time"

	campaignrepo "campaign_bridge_backend/internal/campaign/repository"
	"campaign_bridge_backend/internal/company"
	"campaign_bridge_backend/internal/crm"
	"campaign_bridge_backend/internal/messaging"
	"campaign_bridge_backend/internal/ticketing"
	"campaign_bridge_backend/internal/workflow/transport"
	"campaign_bridge_backend/platform/logger"
)

// CampaignVersionStore reads and transitions campaign versions.
type CampaignVersionStore interface {
	GetVersionByID(ctx context.Context, id string) (campaignrepo.Version, error)
	UpdateVersionStatus(ctx context.Context, id string, status int) error
}

// CompanyDirectory resolves company details by token.
type CompanyDirectory interface {
	GetByToken(ctx context.Context, token string) (company.Company, error)
}

// CRMManager resolves templates and creates JSON records.
type CRMManager interface {
	GetPrincipalTemplateByCustomer(ctx context.Context, company, tenant string) (crm.Template, error)
	CreateSingleJSON(ctx context.Context, company, tenant string, in crm.RecordInput) (crm.Record, error)
}

// Ticketing creates tickets, links CRM customers, and answers open-ticket
// queries.
type Ticketing interface {
	CreateTicket(ctx context.Context, company, name, phase string, desc ticketing.Descriptor) (ticketing.Ticket, error)
	LinkCustomer(ctx context.Context, company, ticketID, template, table, column, crmID string) error
	CheckOpenTickets(ctx context.Context, company string, crmID int64) ([]ticketing.OpenTicket, error)
}

// MessageDispatcher submits outbound messages.
type MessageDispatcher interface {
	SendMessage(ctx context.Context, p messaging.Payload) error
}

// EventPublisher emits campaign lifecycle events.
type EventPublisher interface {
	PublishTicketCreated(ctx context.Context, companyName string, ticket ticketing.Ticket) error
}

// Enqueuer publishes campaign work items to the queue.
type Enqueuer interface {
	EnqueueCreateTicket(ctx context.Context, data transport.CreateTicketData) error
	EnqueueCreateTicketDelayed(ctx context.Context, data transport.CreateTicketData, delay time.Duration) error
	EnqueueStatusUpdate(ctx context.Context, data transport.UpdateStatusData) error
}

// WorkflowIDStore persists external-to-internal workflow id mappings.
type WorkflowIDStore interface {
	GetWorkflowID(ctx context.Context, company, externalID string) ([]int64, error)
	CreateWorkflowID(ctx context.Context, company, externalID string) (int64, error)
}

// Service provides the campaign ticket workflow.
type Service struct {
	campaigns  CampaignVersionStore
	companies  CompanyDirectory
	crm        CRMManager
	tickets    Ticketing
	dispatcher MessageDispatcher
	events     EventPublisher
	enqueuer   Enqueuer
	workflows  WorkflowIDStore
	log        *logger.Logger

	bg        sync.WaitGroup
	bgTimeout time.Duration
}

// New creates the workflow service.
func New(
	campaigns CampaignVersionStore,
	companies CompanyDirectory,
	crmManager CRMManager,
	tickets Ticketing,
	dispatcher MessageDispatcher,
	events EventPublisher,
	enqueuer Enqueuer,
	workflows WorkflowIDStore,
	log *logger.Logger,
) *Service {
	return &Service{
		campaigns:  campaigns,
		companies:  companies,
		crm:        crmManager,
		tickets:    tickets,
		dispatcher: dispatcher,
		events:     events,
		enqueuer:   enqueuer,
		workflows:  workflows,
		log:        log,
		bgTimeout:  30 * time.Second,
	}
}

// Wait blocks until all detached background tasks (negotiation recording,
// message dispatch) have settled. Used during shutdown and in tests.
func (s *Service) Wait() {
	s.bg.Wait()
}

// UpdateCampaignStatus transitions a campaign version, used when the
// batch-finished work item is consumed.
func (s *Service) UpdateCampaignStatus(ctx context.Context, versionID string, status int) error {
	return s.campaigns.UpdateVersionStatus(ctx, versionID, status)
}
