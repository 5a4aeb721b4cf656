// Package repository implements data persistence for secret series and
// content versions.
//
// Each repository has two implementations, PostgreSQL and MySQL, selected at
// startup by driver name. Both support transaction-aware operations via
// database.GetTx(), so a caller that wraps a sequence of repository calls in
// TxManager.WithTx gets atomicity for free.
package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/allisson/keyhouse/internal/database"
	apperrors "github.com/allisson/keyhouse/internal/errors"
	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
)

// PostgreSQLSecretRepository implements SecretRepository for PostgreSQL,
// using a partial unique index on secrets.name (live rows only) to enforce
// name uniqueness while allowing a deleted name to be reused.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// NewPostgreSQLSecretRepository creates a PostgreSQL-backed SecretRepository.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}

// GetByID implements SecretRepository.
func (p *PostgreSQLSecretRepository) GetByID(ctx context.Context, id int64) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `
		SELECT s.id, s.name, s.description, s.type, s.generation_options, s.current_version_id,
		       s.created_at, s.created_by, s.updated_at, s.updated_by,
		       c.id, c.encrypted_content, c.hmac, c.metadata, c.expiry, c.created_at, c.created_by
		FROM secrets s
		JOIN secrets_content c ON c.id = s.current_version_id
		WHERE s.id = $1 AND s.deleted_at IS NULL`

	return p.scanSecret(querier.QueryRowContext(ctx, query, id))
}

// GetByName implements SecretRepository.
func (p *PostgreSQLSecretRepository) GetByName(ctx context.Context, name string) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `
		SELECT s.id, s.name, s.description, s.type, s.generation_options, s.current_version_id,
		       s.created_at, s.created_by, s.updated_at, s.updated_by,
		       c.id, c.encrypted_content, c.hmac, c.metadata, c.expiry, c.created_at, c.created_by
		FROM secrets s
		JOIN secrets_content c ON c.id = s.current_version_id
		WHERE s.name = $1 AND s.deleted_at IS NULL`

	return p.scanSecret(querier.QueryRowContext(ctx, query, name))
}

func (p *PostgreSQLSecretRepository) scanSecret(row *sql.Row) (*secretsDomain.Secret, error) {
	var secret secretsDomain.Secret
	var genOptionsRaw, metadataRaw string

	err := row.Scan(
		&secret.Series.ID, &secret.Series.Name, &secret.Series.Description, &secret.Series.Type,
		&genOptionsRaw, &secret.Series.CurrentVersionID,
		&secret.Series.CreatedAt, &secret.Series.CreatedBy, &secret.Series.UpdatedAt, &secret.Series.UpdatedBy,
		&secret.Content.ID, &secret.Content.EncryptedContent, &secret.Content.HMAC,
		&metadataRaw, &secret.Content.Expiry, &secret.Content.CreatedAt, &secret.Content.CreatedBy,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret")
	}

	secret.Content.SeriesID = secret.Series.ID
	secret.Series.GenerationOptions, err = decodeStringMap(genOptionsRaw)
	if err != nil {
		return nil, err
	}
	secret.Content.Metadata, err = decodeStringMap(metadataRaw)
	if err != nil {
		return nil, err
	}

	return &secret, nil
}

// ListNames implements SecretRepository.
func (p *PostgreSQLSecretRepository) ListNames(ctx context.Context) ([]secretsDomain.NameID, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(ctx, `SELECT id, name FROM secrets WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret names")
	}
	defer rows.Close()

	var names []secretsDomain.NameID
	for rows.Next() {
		var item secretsDomain.NameID
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret name")
		}
		names = append(names, item)
	}
	return names, rows.Err()
}

// ListSecrets implements SecretRepository.
func (p *PostgreSQLSecretRepository) ListSecrets(
	ctx context.Context,
	maxExpiry *int64,
	groupID *int64,
) ([]secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := strings.Builder{}
	query.WriteString(`
		SELECT s.id, s.name, s.description, s.type, s.generation_options, s.current_version_id,
		       s.created_at, s.created_by, s.updated_at, s.updated_by,
		       c.id, c.encrypted_content, c.hmac, c.metadata, c.expiry, c.created_at, c.created_by
		FROM secrets s
		JOIN secrets_content c ON c.id = s.current_version_id
		WHERE s.deleted_at IS NULL`)

	args := []any{}
	argN := 1
	if groupID != nil {
		query.WriteString(" AND EXISTS (SELECT 1 FROM accessgrants a WHERE a.secret_series_id = s.id AND a.group_id = $")
		query.WriteString(strconv.Itoa(argN))
		query.WriteString(")")
		args = append(args, *groupID)
		argN++
	}
	if maxExpiry != nil {
		query.WriteString(" AND c.expiry > 0 AND c.expiry <= $")
		query.WriteString(strconv.Itoa(argN))
		args = append(args, *maxExpiry)
		argN++
	}
	query.WriteString(" ORDER BY s.name")

	rows, err := querier.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer rows.Close()

	var secrets []secretsDomain.Secret
	for rows.Next() {
		var secret secretsDomain.Secret
		var genOptionsRaw, metadataRaw string
		err := rows.Scan(
			&secret.Series.ID, &secret.Series.Name, &secret.Series.Description, &secret.Series.Type,
			&genOptionsRaw, &secret.Series.CurrentVersionID,
			&secret.Series.CreatedAt, &secret.Series.CreatedBy, &secret.Series.UpdatedAt, &secret.Series.UpdatedBy,
			&secret.Content.ID, &secret.Content.EncryptedContent, &secret.Content.HMAC,
			&metadataRaw, &secret.Content.Expiry, &secret.Content.CreatedAt, &secret.Content.CreatedBy,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret")
		}
		secret.Content.SeriesID = secret.Series.ID
		if secret.Series.GenerationOptions, err = decodeStringMap(genOptionsRaw); err != nil {
			return nil, err
		}
		if secret.Content.Metadata, err = decodeStringMap(metadataRaw); err != nil {
			return nil, err
		}
		secrets = append(secrets, secret)
	}
	return secrets, rows.Err()
}

// CreateSecret implements SecretRepository.
func (p *PostgreSQLSecretRepository) CreateSecret(
	ctx context.Context,
	input CreateSecretInput,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)
	now := time.Now().UTC()

	genOptionsRaw, err := encodeStringMap(input.GenerationOptions)
	if err != nil {
		return nil, err
	}
	metadataRaw, err := encodeStringMap(input.Metadata)
	if err != nil {
		return nil, err
	}

	var seriesID int64
	err = querier.QueryRowContext(ctx, `
		INSERT INTO secrets (name, description, type, generation_options, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $5, $6)
		RETURNING id`,
		input.Name, input.Description, input.Type, genOptionsRaw, now, input.Creator,
	).Scan(&seriesID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, secretsDomain.ErrSecretAlreadyExists
		}
		return nil, apperrors.Wrap(err, "failed to create secret series")
	}

	contentID, err := p.insertContent(ctx, querier, seriesID, input, metadataRaw, now)
	if err != nil {
		return nil, err
	}

	if _, err := querier.ExecContext(ctx, `UPDATE secrets SET current_version_id = $1 WHERE id = $2`, contentID, seriesID); err != nil {
		return nil, apperrors.Wrap(err, "failed to set current version")
	}

	return p.GetByID(ctx, seriesID)
}

func (p *PostgreSQLSecretRepository) insertContent(
	ctx context.Context,
	querier database.Querier,
	seriesID int64,
	input CreateSecretInput,
	metadataRaw string,
	now time.Time,
) (int64, error) {
	var contentID int64
	err := querier.QueryRowContext(ctx, `
		INSERT INTO secrets_content (series_id, encrypted_content, hmac, metadata, expiry, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		seriesID, input.EncryptedContent, input.HMAC, metadataRaw, input.Expiry, now, input.Creator,
	).Scan(&contentID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to create secret content")
	}
	return contentID, nil
}

// CreateOrUpdateSecret implements SecretRepository.
func (p *PostgreSQLSecretRepository) CreateOrUpdateSecret(
	ctx context.Context,
	input CreateOrUpdateSecretInput,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)
	now := time.Now().UTC()

	metadataRaw, err := encodeStringMap(input.Metadata)
	if err != nil {
		return nil, err
	}
	genOptionsRaw, err := encodeStringMap(input.GenerationOptions)
	if err != nil {
		return nil, err
	}

	var seriesID int64
	err = querier.QueryRowContext(ctx, `SELECT id FROM secrets WHERE name = $1 AND deleted_at IS NULL`, input.Name).
		Scan(&seriesID)
	switch {
	case err == sql.ErrNoRows:
		err = querier.QueryRowContext(ctx, `
			INSERT INTO secrets (name, description, type, generation_options, created_at, created_by, updated_at, updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $5, $6)
			RETURNING id`,
			input.Name, input.Description, input.Type, genOptionsRaw, now, input.Creator,
		).Scan(&seriesID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, secretsDomain.ErrSecretAlreadyExists
			}
			return nil, apperrors.Wrap(err, "failed to create secret series")
		}
	case err != nil:
		return nil, apperrors.Wrap(err, "failed to look up secret series")
	default:
		if _, err := querier.ExecContext(ctx, `
			UPDATE secrets SET description = $1, type = $2, generation_options = $3, updated_at = $4, updated_by = $5
			WHERE id = $6`,
			input.Description, input.Type, genOptionsRaw, now, input.Creator, seriesID,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to update secret series")
		}
	}

	contentID, err := p.insertContent(ctx, querier, seriesID, input, metadataRaw, now)
	if err != nil {
		return nil, err
	}

	if _, err := querier.ExecContext(ctx, `UPDATE secrets SET current_version_id = $1 WHERE id = $2`, contentID, seriesID); err != nil {
		return nil, apperrors.Wrap(err, "failed to set current version")
	}

	return p.GetByID(ctx, seriesID)
}

// GetVersionsByName implements SecretRepository.
func (p *PostgreSQLSecretRepository) GetVersionsByName(
	ctx context.Context,
	name string,
	offset, count int,
) ([]secretsDomain.SecretContent, error) {
	querier := database.GetTx(ctx, p.db)

	var seriesID int64
	err := querier.QueryRowContext(ctx, `SELECT id FROM secrets WHERE name = $1 AND deleted_at IS NULL`, name).Scan(&seriesID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to look up secret series")
	}

	rows, err := querier.QueryContext(ctx, `
		SELECT id, series_id, encrypted_content, hmac, metadata, expiry, created_at, created_by
		FROM secrets_content
		WHERE series_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`, seriesID, offset, count)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret versions")
	}
	defer rows.Close()

	var versions []secretsDomain.SecretContent
	for rows.Next() {
		var content secretsDomain.SecretContent
		var metadataRaw string
		if err := rows.Scan(
			&content.ID, &content.SeriesID, &content.EncryptedContent, &content.HMAC,
			&metadataRaw, &content.Expiry, &content.CreatedAt, &content.CreatedBy,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret version")
		}
		if content.Metadata, err = decodeStringMap(metadataRaw); err != nil {
			return nil, err
		}
		versions = append(versions, content)
	}
	return versions, rows.Err()
}

// SetCurrentVersionByName implements SecretRepository.
func (p *PostgreSQLSecretRepository) SetCurrentVersionByName(ctx context.Context, name string, versionID int64) error {
	querier := database.GetTx(ctx, p.db)

	var seriesID int64
	err := querier.QueryRowContext(ctx, `SELECT id FROM secrets WHERE name = $1 AND deleted_at IS NULL`, name).Scan(&seriesID)
	if err != nil {
		if err == sql.ErrNoRows {
			return secretsDomain.ErrSecretNotFound
		}
		return apperrors.Wrap(err, "failed to look up secret series")
	}

	var belongsTo int64
	err = querier.QueryRowContext(ctx, `SELECT series_id FROM secrets_content WHERE id = $1`, versionID).Scan(&belongsTo)
	if err != nil {
		if err == sql.ErrNoRows {
			return secretsDomain.ErrVersionNotFound
		}
		return apperrors.Wrap(err, "failed to look up secret version")
	}
	if belongsTo != seriesID {
		return secretsDomain.ErrVersionNotFound
	}

	if _, err := querier.ExecContext(ctx, `UPDATE secrets SET current_version_id = $1, updated_at = $2 WHERE id = $3`,
		versionID, time.Now().UTC(), seriesID); err != nil {
		return apperrors.Wrap(err, "failed to set current version")
	}
	return nil
}

// SetExpiration implements SecretRepository.
func (p *PostgreSQLSecretRepository) SetExpiration(ctx context.Context, name string, expiry int64) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `
		UPDATE secrets_content
		SET expiry = $1
		WHERE id = (SELECT current_version_id FROM secrets WHERE name = $2 AND deleted_at IS NULL)`,
		expiry, name,
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to set secret expiration")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read rows affected")
	}
	return affected > 0, nil
}

// DeleteSecretsByName implements SecretRepository.
func (p *PostgreSQLSecretRepository) DeleteSecretsByName(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `UPDATE secrets SET deleted_at = $1 WHERE name = $2 AND deleted_at IS NULL`,
		time.Now().UTC(), name)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read rows affected")
	}
	if affected == 0 {
		return secretsDomain.ErrSecretNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
