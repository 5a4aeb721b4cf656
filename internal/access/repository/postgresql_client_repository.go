package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/lib/pq"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
	"github.com/allisson/keyhouse/internal/database"
	apperrors "github.com/allisson/keyhouse/internal/errors"
)

// PostgreSQLClientRepository implements ClientRepository for PostgreSQL.
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// NewPostgreSQLClientRepository creates a new PostgreSQL Client repository.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}

func (r *PostgreSQLClientRepository) Create(
	ctx context.Context,
	name string,
	automationAllowed bool,
) (*accessDomain.Client, error) {
	querier := database.GetTx(ctx, r.db)
	now := time.Now().UTC()

	query := `INSERT INTO clients (name, enabled, automation_allowed, last_seen, created_at, updated_at)
			  VALUES ($1, true, $2, NULL, $3, $3) RETURNING id`
	var id int64
	err := querier.QueryRowContext(ctx, query, name, automationAllowed, now).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, accessDomain.ErrClientAlreadyExists
		}
		return nil, apperrors.Wrap(err, "failed to create client")
	}

	return &accessDomain.Client{
		ID: id, Name: name, Enabled: true, AutomationAllowed: automationAllowed,
		CreatedAt: now, UpdatedAt: now,
	}, nil
}

func (r *PostgreSQLClientRepository) scanClient(row *sql.Row) (*accessDomain.Client, error) {
	var c accessDomain.Client
	err := row.Scan(&c.ID, &c.Name, &c.Enabled, &c.AutomationAllowed, &c.LastSeen, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrClientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client")
	}
	return &c, nil
}

const clientColumns = `id, name, enabled, automation_allowed, last_seen, created_at, updated_at`

func (r *PostgreSQLClientRepository) GetByName(ctx context.Context, name string) (*accessDomain.Client, error) {
	querier := database.GetTx(ctx, r.db)
	query := `SELECT ` + clientColumns + ` FROM clients WHERE name = $1`
	return r.scanClient(querier.QueryRowContext(ctx, query, name))
}

func (r *PostgreSQLClientRepository) GetByID(ctx context.Context, id int64) (*accessDomain.Client, error) {
	querier := database.GetTx(ctx, r.db)
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.scanClient(querier.QueryRowContext(ctx, query, id))
}

func (r *PostgreSQLClientRepository) List(ctx context.Context) ([]accessDomain.Client, error) {
	querier := database.GetTx(ctx, r.db)
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list clients")
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
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating client rows")
	}
	return clients, nil
}

// TouchLastSeen updates a client's last-seen timestamp. Called out-of-band
// from the authenticator; failures here must never fail the request that
// triggered them.
func (r *PostgreSQLClientRepository) TouchLastSeen(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)
	_, err := querier.ExecContext(ctx, `UPDATE clients SET last_seen = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client last seen")
	}
	return nil
}
