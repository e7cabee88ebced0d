package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	campaignrepo "campaign_bridge_backend/internal/campaign/repository"
	"campaign_bridge_backend/internal/workflow/transport"
	"campaign_bridge_backend/platform/sanitize"
)

const maxConcurrentEnqueues = 16

const crmLinkColumn = "id"

// SendQueueCreateTicket fans a lead batch out into independent per-lead
// work items. The CRM principal template is resolved once and reused for
// every lead. Per-lead enqueues run in parallel; failures are collected per
// lead and reported, they do not stop the rest of the batch. The
// batch-finished status transition is enqueued only after every per-lead
// enqueue has resolved.
//
// Enqueue order is not completion order: the finished transition may be
// consumed before the last per-lead tickets are created. Callers needing a
// true barrier must track completion downstream.
func (s *Service) SendQueueCreateTicket(ctx context.Context, in transport.FanOutInput) (transport.DispatchResponse, error) {
	template, err := s.crm.GetPrincipalTemplateByCustomer(ctx, in.Company, in.TenantID)
	if err != nil {
		return transport.DispatchResponse{}, fmt.Errorf("get principal template: %w", err)
	}

	failures := make([]error, len(in.Leads))

	var g errgroup.Group
	g.SetLimit(maxConcurrentEnqueues)

	for i, lead := range in.Leads {
		i, lead := i, lead
		g.Go(func() error {
			data := transport.CreateTicketData{
				Company:           in.Company,
				TenantID:          in.TenantID,
				IDPhase:           in.IDPhase,
				IDCampaign:        in.IDCampaign,
				IDCampaignVersion: in.IDCampaignVersion,
				IDWorkflow:        in.IDWorkflow,
				Name:              sanitize.Name(lead.Name),
				Contact:           lead.Contact,
				EndDate:           in.EndDate,
				CRM: transport.CRMDescriptor{
					Template: template.ID,
					Table:    template.Table,
					Column:   crmLinkColumn,
					IDCRM:    lead.ID,
				},
				Negotiation:       in.Negotiation,
				CampaignType:      in.CampaignType,
				CreatedBy:         in.CreatedBy,
				IgnoreOpenTickets: in.IgnoreOpenTickets,
			}
			if lead.Message != "" {
				data.Message = &transport.MessageDescriptor{Text: sanitize.Text(lead.Message)}
			}

			var err error
			if in.DelayMS > 0 {
				err = s.enqueuer.EnqueueCreateTicketDelayed(ctx, data, time.Duration(in.DelayMS)*time.Millisecond)
			} else {
				err = s.enqueuer.EnqueueCreateTicket(ctx, data)
			}
			if err != nil {
				failures[i] = fmt.Errorf("enqueue lead %d (%s): %w", lead.ID, lead.Name, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	resp := transport.DispatchResponse{}
	for i, failure := range failures {
		if failure == nil {
			resp.Enqueued++
		} else {
			resp.Failed = append(resp.Failed, in.Leads[i].Name)
		}
	}

	if err := s.enqueuer.EnqueueStatusUpdate(ctx, transport.UpdateStatusData{
		Company:           in.Company,
		IDCampaign:        in.IDCampaign,
		IDCampaignVersion: in.IDCampaignVersion,
		Status:            campaignrepo.StatusFinished,
	}); err != nil {
		failures = append(failures, fmt.Errorf("enqueue finished transition: %w", err))
	}

	return resp, errors.Join(failures...)
}
