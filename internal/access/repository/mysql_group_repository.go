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

// MySQLGroupRepository implements GroupRepository for MySQL.
type MySQLGroupRepository struct {
	db *sql.DB
}

// NewMySQLGroupRepository creates a new MySQL Group repository.
func NewMySQLGroupRepository(db *sql.DB) *MySQLGroupRepository {
	return &MySQLGroupRepository{db: db}
}

func (r *MySQLGroupRepository) Create(
	ctx context.Context,
	name, description string,
) (*accessDomain.Group, error) {
	querier := database.GetTx(ctx, r.db)
	now := time.Now().UTC()

	query := `INSERT INTO groups (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)`
	result, err := querier.ExecContext(ctx, query, name, description, now, now)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if stderrors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, accessDomain.ErrGroupAlreadyExists
		}
		return nil, apperrors.Wrap(err, "failed to create group")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get last insert id")
	}

	return &accessDomain.Group{ID: id, Name: name, Description: description, CreatedAt: now, UpdatedAt: now}, nil
}

func (r *MySQLGroupRepository) scanGroup(row *sql.Row) (*accessDomain.Group, error) {
	var g accessDomain.Group
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get group")
	}
	return &g, nil
}

func (r *MySQLGroupRepository) GetByName(ctx context.Context, name string) (*accessDomain.Group, error) {
	querier := database.GetTx(ctx, r.db)
	query := `SELECT id, name, description, created_at, updated_at FROM groups WHERE name = ?`
	return r.scanGroup(querier.QueryRowContext(ctx, query, name))
}

func (r *MySQLGroupRepository) GetByID(ctx context.Context, id int64) (*accessDomain.Group, error) {
	querier := database.GetTx(ctx, r.db)
	query := `SELECT id, name, description, created_at, updated_at FROM groups WHERE id = ?`
	return r.scanGroup(querier.QueryRowContext(ctx, query, id))
}

func (r *MySQLGroupRepository) List(ctx context.Context) ([]accessDomain.Group, error) {
	querier := database.GetTx(ctx, r.db)
	query := `SELECT id, name, description, created_at, updated_at FROM groups ORDER BY name`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list groups")
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
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating group rows")
	}
	return groups, nil
}

func (r *MySQLGroupRepository) Delete(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, `DELETE FROM groups WHERE name = ?`, name)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete group")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return accessDomain.ErrGroupNotFound
	}
	return nil
}
