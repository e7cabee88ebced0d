package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	campaignrepo "campaign_bridge_backend/internal/campaign/repository"
	"campaign_bridge_backend/internal/company"
	"campaign_bridge_backend/internal/messaging"
	"campaign_bridge_backend/internal/ticketing"
	"campaign_bridge_backend/internal/workflow/transport"
	"campaign_bridge_backend/platform/apperr"
)

// Outcome is the tagged result of one ticket-creation call. The skip
// variants report success without side effects; Failed covers both the
// soft business failure (ticket without id) and hard-gate errors.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeSkippedCampaignStatus
	OutcomeSkippedOpenTicket
	OutcomeFailed
)

// String returns the outcome label used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeSkippedCampaignStatus:
		return "skipped_campaign_status"
	case OutcomeSkippedOpenTicket:
		return "skipped_open_ticket"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CampaignTypeCRM marks campaigns whose tickets are linked to CRM records.
const CampaignTypeCRM = "crm"

const ticketName = "Campaign"

// CreateTicket runs the per-lead ticket workflow. Steps execute strictly in
// order; each of the hard gates (campaign lookup, company lookup, channel
// resolution, ticket creation) aborts the call with a typed error. A
// campaign in a terminal status or an already-open ticket short-circuits
// with a skip outcome and no side effects. Negotiation recording and
// message dispatch run detached and never affect the returned outcome. The
// ticket-created event is published only after the ticket exists.
func (s *Service) CreateTicket(ctx context.Context, data transport.CreateTicketData) (Outcome, error) {
	version, err := s.campaigns.GetVersionByID(ctx, data.IDCampaignVersion)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("get campaign version: %w", err)
	}

	if isTerminalStatus(version.IDStatus) {
		return OutcomeSkippedCampaignStatus, nil
	}

	comp, err := s.companies.GetByToken(ctx, data.Company)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("get company by token: %w", err)
	}

	if data.IgnoreOpenTickets {
		open, err := s.checkOpenTickets(ctx, data.Company, data.CRM.IDCRM)
		if err != nil {
			return OutcomeFailed, err
		}
		if open {
			return OutcomeSkippedOpenTicket, nil
		}
	}

	if len(version.FirstMessage) == 0 {
		return OutcomeFailed, apperr.Precondition("campaign version has no message channel").WithOp("workflow.CreateTicket")
	}
	first := version.FirstMessage[0]

	channelName, err := ChannelName(first.IDChannel)
	if err != nil {
		return OutcomeFailed, err
	}

	ticket, err := s.tickets.CreateTicket(ctx, data.Company, data.Name, data.IDPhase, ticketing.Descriptor{
		Name:        ticketName,
		Channel:     channelName,
		URL:         "",
		Description: version.Name,
	})
	if err != nil {
		return OutcomeFailed, fmt.Errorf("create ticket: %w", err)
	}

	if ticket.ID == "" {
		s.log.Warn("ticketing returned a ticket without id",
			"company", data.Company,
			"campaign_version", data.IDCampaignVersion,
		)
		return OutcomeFailed, nil
	}

	if data.CampaignType == CampaignTypeCRM {
		crmID := strconv.FormatInt(data.CRM.IDCRM, 10)
		if err := s.tickets.LinkCustomer(ctx, data.Company, ticket.ID, data.CRM.Template, data.CRM.Table, data.CRM.Column, crmID); err != nil {
			// The ticket already exists at this point; it stays unlinked
			// and no event is emitted for it.
			return OutcomeFailed, fmt.Errorf("link customer: %w", err)
		}
	}

	if data.EndDate != nil {
		// Expiration handling is not implemented; the end date rides
		// along on the payload until it is.
		s.log.Debug("end date present, expiration handling not implemented",
			"campaign_version", data.IDCampaignVersion,
			"end_date", *data.EndDate,
		)
	}

	if data.Negotiation != nil {
		s.spawn(func(bgCtx context.Context, correlationID string) {
			if _, err := s.CreateNegotiation(bgCtx, data.Company, data.TenantID, data.CRM.IDCRM, ticket.IDSeq, *data.Negotiation); err != nil {
				s.log.DispatchError("create_negotiation", correlationID, err)
			}
		})
	}

	if data.Message != nil {
		payload := buildMessagePayload(comp, data, ticket, first)
		s.spawn(func(bgCtx context.Context, correlationID string) {
			if err := s.dispatcher.SendMessage(bgCtx, payload); err != nil {
				s.log.DispatchError("send_message", correlationID, err)
			}
		})
	}

	if err := s.events.PublishTicketCreated(ctx, comp.Name, ticket); err != nil {
		// The ticket exists; event delivery is best effort.
		s.log.QueueError("ticket_created_event", err)
	}

	return OutcomeCreated, nil
}

func isTerminalStatus(status int) bool {
	switch status {
	case campaignrepo.StatusCanceled, campaignrepo.StatusDraft, campaignrepo.StatusFinished:
		return true
	default:
		return false
	}
}

// spawn runs fn detached from the caller's lifetime with its own deadline
// and correlation id. Failures are observed by fn itself, never propagated.
func (s *Service) spawn(fn func(ctx context.Context, correlationID string)) {
	correlationID := uuid.NewString()

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.bgTimeout)
		defer cancel()

		fn(ctx, correlationID)
	}()
}

func buildMessagePayload(comp company.Company, data transport.CreateTicketData, ticket ticketing.Ticket, first campaignrepo.FirstMessage) messaging.Payload {
	return messaging.Payload{
		Company: messaging.CompanyRef{
			ID:    comp.ID,
			Name:  comp.Name,
			Token: comp.Token,
		},
		TenantID: data.TenantID,
		Ticket:   ticket,
		CRM:      data.CRM,
		Message:  data.Message.Text,
		Contact:  data.Contact,
		IDUser:   data.CreatedBy,
		Channel: messaging.ChannelRef{
			ID:       first.IDChannel,
			Token:    first.ChannelToken,
			IDBroker: first.IDBroker,
		},
		IDWorkflow: data.IDWorkflow,
		HSM:        first.HSM,
	}
}
