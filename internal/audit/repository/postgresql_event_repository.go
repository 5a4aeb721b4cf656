package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	auditDomain "github.com/allisson/keyhouse/internal/audit/domain"
	"github.com/allisson/keyhouse/internal/database"
	apperrors "github.com/allisson/keyhouse/internal/errors"
)

// PostgreSQLEventRepository implements EventRepository for PostgreSQL.
type PostgreSQLEventRepository struct {
	db *sql.DB
}

// NewPostgreSQLEventRepository creates a new PostgreSQL Event repository.
func NewPostgreSQLEventRepository(db *sql.DB) *PostgreSQLEventRepository {
	return &PostgreSQLEventRepository{db: db}
}

func (r *PostgreSQLEventRepository) Create(ctx context.Context, event *auditDomain.Event) error {
	querier := database.GetTx(ctx, r.db)

	var extraJSON []byte
	if event.ExtraInfo != nil {
		var err error
		extraJSON, err = json.Marshal(event.ExtraInfo)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit event extra info")
		}
	}

	query := `INSERT INTO audit_events (timestamp, tag, actor_name, target_name, extra_info)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := querier.ExecContext(ctx, query, event.Timestamp, string(event.Tag), event.ActorName, event.TargetName, extraJSON)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit event")
	}
	return nil
}

func (r *PostgreSQLEventRepository) List(
	ctx context.Context,
	offset, limit int,
	from, to *time.Time,
) ([]auditDomain.Event, error) {
	querier := database.GetTx(ctx, r.db)

	var conditions []string
	var args []any
	paramIndex := 1

	if from != nil {
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", paramIndex))
		args = append(args, *from)
		paramIndex++
	}
	if to != nil {
		conditions = append(conditions, fmt.Sprintf("timestamp <= $%d", paramIndex))
		args = append(args, *to)
		paramIndex++
	}

	query := `SELECT id, timestamp, tag, actor_name, target_name, extra_info FROM audit_events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d OFFSET $%d", paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer func() { _ = rows.Close() }()

	events := make([]auditDomain.Event, 0)
	for rows.Next() {
		var e auditDomain.Event
		var tag string
		var extraJSON []byte
		if err := rows.Scan(&e.ID, &e.Timestamp, &tag, &e.ActorName, &e.TargetName, &extraJSON); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event")
		}
		e.Tag = auditDomain.Tag(tag)
		if extraJSON != nil {
			if err := json.Unmarshal(extraJSON, &e.ExtraInfo); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit event extra info")
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
