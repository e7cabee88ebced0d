package service

import (
	"context"
	"fmt"
)

// checkOpenTickets reports whether the CRM identity already has an open
// ticket. Errors from the ticketing service propagate; the caller treats
// them as a hard failure rather than guessing at the dedup state.
//
// Matching is scoped by (company, crm_id) only. Tenants sharing a CRM id
// under the same company will alias each other here.
func (s *Service) checkOpenTickets(ctx context.Context, company string, crmID int64) (bool, error) {
	found, err := s.tickets.CheckOpenTickets(ctx, company, crmID)
	if err != nil {
		return false, fmt.Errorf("check open tickets: %w", err)
	}

	for _, t := range found {
		if t.Open {
			return true, nil
		}
	}

	return false, nil
}
