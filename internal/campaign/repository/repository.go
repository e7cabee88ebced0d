// Package repository provides PostgreSQL access to campaign versions.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campaign_bridge_backend/platform/apperr"
)

// Campaign version statuses.
const (
	StatusDraft    = 1
	StatusActive   = 2
	StatusCanceled = 3
	StatusFinished = 4
)

// FirstMessage is the channel descriptor of a campaign version's opening
// message.
type FirstMessage struct {
	IDChannel    int    `json:"id_channel"`
	ChannelToken string `json:"channel_token"`
	IDBroker     int64  `json:"id_broker"`
	HSM          bool   `json:"hsm"`
}

// Version is one run/configuration of a campaign.
type Version struct {
	ID           string
	IDStatus     int
	Name         string
	FirstMessage []FirstMessage
}

const versionNotFoundMessage = "campaign version not found"

// Repo implements campaign version access with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new campaign version repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetVersionByID retrieves a campaign version with its first-message
// channel descriptor.
func (r *Repo) GetVersionByID(ctx context.Context, id string) (Version, error) {
	query := `
		SELECT id, id_status, name, first_message
		FROM campaign_versions
		WHERE id = $1`

	var v Version
	var firstMessage []byte

	err := r.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.IDStatus, &v.Name, &firstMessage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Version{}, apperr.NotFound(versionNotFoundMessage)
		}
		return Version{}, fmt.Errorf("get campaign version by id: %w", err)
	}

	if len(firstMessage) > 0 {
		if err := json.Unmarshal(firstMessage, &v.FirstMessage); err != nil {
			return Version{}, fmt.Errorf("decode first_message for version %s: %w", id, err)
		}
	}

	return v, nil
}

// UpdateVersionStatus sets the status of a campaign version.
func (r *Repo) UpdateVersionStatus(ctx context.Context, id string, status int) error {
	query := `
		UPDATE campaign_versions
		SET id_status = $2, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update campaign version status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(versionNotFoundMessage)
	}

	return nil
}
