package service

import (
	"context"
	"fmt"
)

// GetWorkflowID resolves the internal id for an external workflow id,
// creating the mapping on first reference. There is no update path. Two
// callers racing on the same key may both insert; the first mapping by id
// wins on subsequent lookups.
func (s *Service) GetWorkflowID(ctx context.Context, company, externalID string) (int64, error) {
	ids, err := s.workflows.GetWorkflowID(ctx, company, externalID)
	if err != nil {
		return 0, fmt.Errorf("resolve workflow id: %w", err)
	}
	if len(ids) > 0 {
		return ids[0], nil
	}

	id, err := s.workflows.CreateWorkflowID(ctx, company, externalID)
	if err != nil {
		return 0, fmt.Errorf("create workflow id: %w", err)
	}

	return id, nil
}
