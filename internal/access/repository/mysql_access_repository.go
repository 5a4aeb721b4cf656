package repository

import (
	"context"
	"database/sql"
	"time"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
	"github.com/allisson/keyhouse/internal/database"
	apperrors "github.com/allisson/keyhouse/internal/errors"
)

// MySQLAccessRepository implements AccessRepository for MySQL, using
// `INSERT IGNORE` in place of PostgreSQL's `ON CONFLICT DO NOTHING` for
// idempotent edge inserts.
type MySQLAccessRepository struct {
	db *sql.DB
}

// NewMySQLAccessRepository creates a new MySQL Access repository.
func NewMySQLAccessRepository(db *sql.DB) *MySQLAccessRepository {
	return &MySQLAccessRepository{db: db}
}

func (r *MySQLAccessRepository) GrantAccess(ctx context.Context, secretSeriesID, groupID int64) (bool, error) {
	querier := database.GetTx(ctx, r.db)
	query := `INSERT IGNORE INTO accessgrants (secret_series_id, group_id, created_at) VALUES (?, ?, ?)`
	result, err := querier.ExecContext(ctx, query, secretSeriesID, groupID, time.Now().UTC())
	if err != nil {
		return false, apperrors.Wrap(err, "failed to grant access")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rowsAffected > 0, nil
}

func (r *MySQLAccessRepository) RevokeAccess(ctx context.Context, secretSeriesID, groupID int64) (bool, error) {
	querier := database.GetTx(ctx, r.db)
	query := `DELETE FROM accessgrants WHERE secret_series_id = ? AND group_id = ?`
	result, err := querier.ExecContext(ctx, query, secretSeriesID, groupID)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to revoke access")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rowsAffected > 0, nil
}

func (r *MySQLAccessRepository) GroupsForSecret(
	ctx context.Context,
	secretSeriesID int64,
) ([]accessDomain.Group, error) {
	querier := database.GetTx(ctx, r.db)
	query := `SELECT g.id, g.name, g.description, g.created_at, g.updated_at
			  FROM groups g
			  JOIN accessgrants a ON a.group_id = g.id
			  WHERE a.secret_series_id = ?
			  ORDER BY g.name`
	rows, err := querier.QueryContext(ctx, query, secretSeriesID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list groups for secret")
	}
	defer func() { _ = rows.Close() }()

	groups := make([]accessDomain.Group, 0)
	for rows.Next() {
		var g accessDomain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan group row")
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *MySQLAccessRepository) ClientsForSecret(
	ctx context.Context,
	secretSeriesID int64,
) ([]accessDomain.Client, error) {
	querier := database.GetTx(ctx, r.db)
	query := `SELECT DISTINCT c.id, c.name, c.enabled, c.automation_allowed, c.last_seen, c.created_at, c.updated_at
			  FROM clients c
			  JOIN memberships m ON m.client_id = c.id
			  JOIN accessgrants a ON a.group_id = m.group_id
			  WHERE a.secret_series_id = ?
			  ORDER BY c.name`
	rows, err := querier.QueryContext(ctx, query, secretSeriesID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list clients for secret")
	}
	defer func() { _ = rows.Close() }()

	clients := make([]accessDomain.Client, 0)
	for rows.Next() {
		var c accessDomain.Client
		err := rows.Scan(&c.ID, &c.Name, &c.Enabled, &c.AutomationAllowed, &c.LastSeen, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan client row")
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *MySQLAccessRepository) SecretIDsForClient(ctx context.Context, clientID int64) ([]int64, error) {
	querier := database.GetTx(ctx, r.db)
	query := `SELECT DISTINCT a.secret_series_id
			  FROM accessgrants a
			  JOIN memberships m ON m.group_id = a.group_id
			  WHERE m.client_id = ?`
	rows, err := querier.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets for client")
	}
	defer func() { _ = rows.Close() }()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *MySQLAccessRepository) AddMembership(ctx context.Context, clientID, groupID int64) (bool, error) {
	querier := database.GetTx(ctx, r.db)
	query := `INSERT IGNORE INTO memberships (client_id, group_id, created_at) VALUES (?, ?, ?)`
	result, err := querier.ExecContext(ctx, query, clientID, groupID, time.Now().UTC())
	if err != nil {
		return false, apperrors.Wrap(err, "failed to add membership")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rowsAffected > 0, nil
}

func (r *MySQLAccessRepository) RemoveMembership(ctx context.Context, clientID, groupID int64) (bool, error) {
	querier := database.GetTx(ctx, r.db)
	query := `DELETE FROM memberships WHERE client_id = ? AND group_id = ?`
	result, err := querier.ExecContext(ctx, query, clientID, groupID)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to remove membership")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rowsAffected > 0, nil
}
