package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/go-sql-driver/mysql"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
	"github.com/allisson/keyhouse/internal/database"
	apperrors "github.com/allisson/keyhouse/internal/errors"
)

// MySQLClientRepository implements ClientRepository for MySQL.
type MySQLClientRepository struct {
	db *sql.DB
}

// NewMySQLClientRepository creates a new MySQL Client repository.
func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}

func (r *MySQLClientRepository) Create(
	ctx context.Context,
	name string,
	automationAllowed bool,
) (*accessDomain.Client, error) {
	querier := database.GetTx(ctx, r.db)
	now := time.Now().UTC()

	query := `INSERT INTO clients (name, enabled, automation_allowed, last_seen, created_at, updated_at)
			  VALUES (?, true, ?, NULL, ?, ?)`
	result, err := querier.ExecContext(ctx, query, name, automationAllowed, now, now)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if stderrors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, accessDomain.ErrClientAlreadyExists
		}
		return nil, apperrors.Wrap(err, "failed to create client")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get last insert id")
	}

	return &accessDomain.Client{
		ID: id, Name: name, Enabled: true, AutomationAllowed: automationAllowed,
		CreatedAt: now, UpdatedAt: now,
	}, nil
}

func (r *MySQLClientRepository) scanClient(row *sql.Row) (*accessDomain.Client, error) {
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

func (r *MySQLClientRepository) GetByName(ctx context.Context, name string) (*accessDomain.Client, error) {
	querier := database.GetTx(ctx, r.db)
	query := `SELECT ` + clientColumns + ` FROM clients WHERE name = ?`
	return r.scanClient(querier.QueryRowContext(ctx, query, name))
}

func (r *MySQLClientRepository) GetByID(ctx context.Context, id int64) (*accessDomain.Client, error) {
	querier := database.GetTx(ctx, r.db)
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ?`
	return r.scanClient(querier.QueryRowContext(ctx, query, id))
}

func (r *MySQLClientRepository) List(ctx context.Context) ([]accessDomain.Client, error) {
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

func (r *MySQLClientRepository) TouchLastSeen(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)
	_, err := querier.ExecContext(ctx, `UPDATE clients SET last_seen = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client last seen")
	}
	return nil
}
