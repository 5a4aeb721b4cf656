package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	auditDomain "github.com/allisson/keyhouse/internal/audit/domain"
	"github.com/allisson/keyhouse/internal/database"
	apperrors "github.com/allisson/keyhouse/internal/errors"
)

// MySQLEventRepository implements EventRepository for MySQL.
type MySQLEventRepository struct {
	db *sql.DB
}

// NewMySQLEventRepository creates a new MySQL Event repository.
func NewMySQLEventRepository(db *sql.DB) *MySQLEventRepository {
	return &MySQLEventRepository{db: db}
}

func (r *MySQLEventRepository) Create(ctx context.Context, event *auditDomain.Event) error {
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
			  VALUES (?, ?, ?, ?, ?)`
	_, err := querier.ExecContext(ctx, query, event.Timestamp, string(event.Tag), event.ActorName, event.TargetName, extraJSON)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit event")
	}
	return nil
}

func (r *MySQLEventRepository) List(
	ctx context.Context,
	offset, limit int,
	from, to *time.Time,
) ([]auditDomain.Event, error) {
	querier := database.GetTx(ctx, r.db)

	var conditions []string
	var args []any

	if from != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, *from)
	}
	if to != nil {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, *to)
	}

	query := `SELECT id, timestamp, tag, actor_name, target_name, extra_info FROM audit_events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC LIMIT ? OFFSET ?"
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
