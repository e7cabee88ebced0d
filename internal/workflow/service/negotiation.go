package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"campaign_bridge_backend/internal/crm"
	"campaign_bridge_backend/internal/workflow/transport"
)

// negotiation records are created on behalf of the system, not a user.
const negotiationCreatedBy = 0

const maxChildSubmissions = 8

// NegotiationResult holds the created main record and whichever child
// records were created successfully.
type NegotiationResult struct {
	Main     crm.Record
	Children []crm.Record
}

// CreateNegotiation builds the main negotiation record and its children.
// The main record maps the CRM identity and ticket sequence id into the
// caller-named template fields. Children are submitted in parallel; a child
// declaring a foreign-key field gets the main record's generated id injected
// under that field. Child failures are collected and returned alongside the
// records that did succeed, never silently dropped.
func (s *Service) CreateNegotiation(ctx context.Context, company, tenant string, crmID, ticketSeqID int64, neg transport.NegotiationData) (NegotiationResult, error) {
	main, err := s.crm.CreateSingleJSON(ctx, company, tenant, crm.RecordInput{
		TemplateID: neg.Main.Template,
		Data: map[string]any{
			neg.Main.CustomerField: crmID,
			neg.Main.TicketField:   ticketSeqID,
		},
		CreatedBy: negotiationCreatedBy,
	})
	if err != nil {
		return NegotiationResult{}, fmt.Errorf("create main negotiation record: %w", err)
	}

	if len(neg.Children) == 0 {
		return NegotiationResult{Main: main}, nil
	}

	created := make([]crm.Record, len(neg.Children))
	failures := make([]error, len(neg.Children))

	var g errgroup.Group
	g.SetLimit(maxChildSubmissions)

	for i, child := range neg.Children {
		i, child := i, child
		g.Go(func() error {
			data := make(map[string]any, len(child.Values)+1)
			for k, v := range child.Values {
				data[k] = v
			}
			if child.ForeignKeyField != "" {
				data[child.ForeignKeyField] = main.ID
			}

			rec, err := s.crm.CreateSingleJSON(ctx, company, tenant, crm.RecordInput{
				TemplateID: child.Template,
				Data:       data,
				CreatedBy:  negotiationCreatedBy,
			})
			if err != nil {
				failures[i] = fmt.Errorf("create child record %d (template %s): %w", i, child.Template, err)
				return nil
			}

			created[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	result := NegotiationResult{Main: main}
	for i, rec := range created {
		if failures[i] == nil {
			result.Children = append(result.Children, rec)
		}
	}

	if err := errors.Join(failures...); err != nil {
		return result, fmt.Errorf("negotiation children partially failed: %w", err)
	}

	return result, nil
}
