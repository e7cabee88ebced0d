// Package repository provides PostgreSQL access to workflow id mappings.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements workflow id storage with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new workflow id repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetWorkflowID returns the internal ids mapped to an external workflow id
// for a company. The result is empty when no mapping exists yet.
func (r *Repo) GetWorkflowID(ctx context.Context, company, externalID string) ([]int64, error) {
	query := `
		SELECT id
		FROM workflow_ids
		WHERE company_token = $1 AND external_id = $2
		ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, company, externalID)
	if err != nil {
		return nil, fmt.Errorf("get workflow id: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan workflow id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workflow ids: %w", err)
	}

	return ids, nil
}

// CreateWorkflowID inserts a new mapping and returns its generated id.
// There is no uniqueness constraint on (company_token, external_id);
// concurrent creators racing on the same key may both insert.
func (r *Repo) CreateWorkflowID(ctx context.Context, company, externalID string) (int64, error) {
	query := `
		INSERT INTO workflow_ids (company_token, external_id)
		VALUES ($1, $2)
		RETURNING id`

	var id int64
	if err := r.pool.QueryRow(ctx, query, company, externalID).Scan(&id); err != nil {
		return 0, fmt.Errorf("create workflow id: %w", err)
	}

	return id, nil
}
