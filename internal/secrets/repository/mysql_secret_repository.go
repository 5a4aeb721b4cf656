package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/allisson/keyhouse/internal/database"
	apperrors "github.com/allisson/keyhouse/internal/errors"
	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
)

// MySQLSecretRepository implements SecretRepository for MySQL, using
// LastInsertId() in place of PostgreSQL's RETURNING clause and `?`
// positional placeholders.
//
// Database schema requirements:
//   - secrets: id BIGINT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(255),
//     description, type, generation_options JSON, current_version_id BIGINT,
//     created_at/updated_at DATETIME(6), created_by/updated_by VARCHAR(255),
//     deleted_at DATETIME(6) NULL. MySQL treats every NULL as distinct in a
//     unique index, so a (name, deleted_at) unique key would not reject a
//     second live row; name uniqueness among live rows is instead enforced
//     by checking before insert, inside the caller's transaction.
//   - secrets_content: id BIGINT AUTO_INCREMENT PRIMARY KEY, series_id BIGINT,
//     encrypted_content, hmac, metadata JSON, expiry BIGINT, created_at
//     DATETIME(6), created_by VARCHAR(255).
type MySQLSecretRepository struct {
	db *sql.DB
}

// NewMySQLSecretRepository creates a MySQL-backed SecretRepository.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db}
}

// GetByID implements SecretRepository.
func (m *MySQLSecretRepository) GetByID(ctx context.Context, id int64) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `
		SELECT s.id, s.name, s.description, s.type, s.generation_options, s.current_version_id,
		       s.created_at, s.created_by, s.updated_at, s.updated_by,
		       c.id, c.encrypted_content, c.hmac, c.metadata, c.expiry, c.created_at, c.created_by
		FROM secrets s
		JOIN secrets_content c ON c.id = s.current_version_id
		WHERE s.id = ? AND s.deleted_at IS NULL`

	return m.scanSecret(querier.QueryRowContext(ctx, query, id))
}

// GetByName implements SecretRepository.
func (m *MySQLSecretRepository) GetByName(ctx context.Context, name string) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `
		SELECT s.id, s.name, s.description, s.type, s.generation_options, s.current_version_id,
		       s.created_at, s.created_by, s.updated_at, s.updated_by,
		       c.id, c.encrypted_content, c.hmac, c.metadata, c.expiry, c.created_at, c.created_by
		FROM secrets s
		JOIN secrets_content c ON c.id = s.current_version_id
		WHERE s.name = ? AND s.deleted_at IS NULL`

	return m.scanSecret(querier.QueryRowContext(ctx, query, name))
}

func (m *MySQLSecretRepository) scanSecret(row *sql.Row) (*secretsDomain.Secret, error) {
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
func (m *MySQLSecretRepository) ListNames(ctx context.Context) ([]secretsDomain.NameID, error) {
	querier := database.GetTx(ctx, m.db)

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
func (m *MySQLSecretRepository) ListSecrets(
	ctx context.Context,
	maxExpiry *int64,
	groupID *int64,
) ([]secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := strings.Builder{}
	query.WriteString(`
		SELECT s.id, s.name, s.description, s.type, s.generation_options, s.current_version_id,
		       s.created_at, s.created_by, s.updated_at, s.updated_by,
		       c.id, c.encrypted_content, c.hmac, c.metadata, c.expiry, c.created_at, c.created_by
		FROM secrets s
		JOIN secrets_content c ON c.id = s.current_version_id
		WHERE s.deleted_at IS NULL`)

	args := []any{}
	if groupID != nil {
		query.WriteString(" AND EXISTS (SELECT 1 FROM accessgrants a WHERE a.secret_series_id = s.id AND a.group_id = ?)")
		args = append(args, *groupID)
	}
	if maxExpiry != nil {
		query.WriteString(" AND c.expiry > 0 AND c.expiry <= ?")
		args = append(args, *maxExpiry)
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
func (m *MySQLSecretRepository) CreateSecret(
	ctx context.Context,
	input CreateSecretInput,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)
	now := time.Now().UTC()

	var exists int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM secrets WHERE name = ? AND deleted_at IS NULL`, input.Name).
		Scan(&exists)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check secret name")
	}
	if exists > 0 {
		return nil, secretsDomain.ErrSecretAlreadyExists
	}

	genOptionsRaw, err := encodeStringMap(input.GenerationOptions)
	if err != nil {
		return nil, err
	}
	metadataRaw, err := encodeStringMap(input.Metadata)
	if err != nil {
		return nil, err
	}

	result, err := querier.ExecContext(ctx, `
		INSERT INTO secrets (name, description, type, generation_options, created_at, created_by, updated_at, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Name, input.Description, input.Type, genOptionsRaw, now, input.Creator, now, input.Creator,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, secretsDomain.ErrSecretAlreadyExists
		}
		return nil, apperrors.Wrap(err, "failed to create secret series")
	}
	seriesID, err := result.LastInsertId()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read series id")
	}

	contentID, err := m.insertContent(ctx, querier, seriesID, input, metadataRaw, now)
	if err != nil {
		return nil, err
	}

	if _, err := querier.ExecContext(ctx, `UPDATE secrets SET current_version_id = ? WHERE id = ?`, contentID, seriesID); err != nil {
		return nil, apperrors.Wrap(err, "failed to set current version")
	}

	return m.GetByID(ctx, seriesID)
}

func (m *MySQLSecretRepository) insertContent(
	ctx context.Context,
	querier database.Querier,
	seriesID int64,
	input CreateSecretInput,
	metadataRaw string,
	now time.Time,
) (int64, error) {
	result, err := querier.ExecContext(ctx, `
		INSERT INTO secrets_content (series_id, encrypted_content, hmac, metadata, expiry, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seriesID, input.EncryptedContent, input.HMAC, metadataRaw, input.Expiry, now, input.Creator,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to create secret content")
	}
	return result.LastInsertId()
}

// CreateOrUpdateSecret implements SecretRepository.
func (m *MySQLSecretRepository) CreateOrUpdateSecret(
	ctx context.Context,
	input CreateOrUpdateSecretInput,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)
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
	err = querier.QueryRowContext(ctx, `SELECT id FROM secrets WHERE name = ? AND deleted_at IS NULL`, input.Name).
		Scan(&seriesID)
	switch {
	case err == sql.ErrNoRows:
		result, insertErr := querier.ExecContext(ctx, `
			INSERT INTO secrets (name, description, type, generation_options, created_at, created_by, updated_at, updated_by)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			input.Name, input.Description, input.Type, genOptionsRaw, now, input.Creator, now, input.Creator,
		)
		if insertErr != nil {
			if isDuplicateEntry(insertErr) {
				return nil, secretsDomain.ErrSecretAlreadyExists
			}
			return nil, apperrors.Wrap(insertErr, "failed to create secret series")
		}
		if seriesID, err = result.LastInsertId(); err != nil {
			return nil, apperrors.Wrap(err, "failed to read series id")
		}
	case err != nil:
		return nil, apperrors.Wrap(err, "failed to look up secret series")
	default:
		if _, err := querier.ExecContext(ctx, `
			UPDATE secrets SET description = ?, type = ?, generation_options = ?, updated_at = ?, updated_by = ?
			WHERE id = ?`,
			input.Description, input.Type, genOptionsRaw, now, input.Creator, seriesID,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to update secret series")
		}
	}

	contentID, err := m.insertContent(ctx, querier, seriesID, input, metadataRaw, now)
	if err != nil {
		return nil, err
	}

	if _, err := querier.ExecContext(ctx, `UPDATE secrets SET current_version_id = ? WHERE id = ?`, contentID, seriesID); err != nil {
		return nil, apperrors.Wrap(err, "failed to set current version")
	}

	return m.GetByID(ctx, seriesID)
}

// GetVersionsByName implements SecretRepository.
func (m *MySQLSecretRepository) GetVersionsByName(
	ctx context.Context,
	name string,
	offset, count int,
) ([]secretsDomain.SecretContent, error) {
	querier := database.GetTx(ctx, m.db)

	var seriesID int64
	err := querier.QueryRowContext(ctx, `SELECT id FROM secrets WHERE name = ? AND deleted_at IS NULL`, name).Scan(&seriesID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to look up secret series")
	}

	rows, err := querier.QueryContext(ctx, `
		SELECT id, series_id, encrypted_content, hmac, metadata, expiry, created_at, created_by
		FROM secrets_content
		WHERE series_id = ?
		ORDER BY created_at DESC
		LIMIT ?, ?`, seriesID, offset, count)
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
func (m *MySQLSecretRepository) SetCurrentVersionByName(ctx context.Context, name string, versionID int64) error {
	querier := database.GetTx(ctx, m.db)

	var seriesID int64
	err := querier.QueryRowContext(ctx, `SELECT id FROM secrets WHERE name = ? AND deleted_at IS NULL`, name).Scan(&seriesID)
	if err != nil {
		if err == sql.ErrNoRows {
			return secretsDomain.ErrSecretNotFound
		}
		return apperrors.Wrap(err, "failed to look up secret series")
	}

	var belongsTo int64
	err = querier.QueryRowContext(ctx, `SELECT series_id FROM secrets_content WHERE id = ?`, versionID).Scan(&belongsTo)
	if err != nil {
		if err == sql.ErrNoRows {
			return secretsDomain.ErrVersionNotFound
		}
		return apperrors.Wrap(err, "failed to look up secret version")
	}
	if belongsTo != seriesID {
		return secretsDomain.ErrVersionNotFound
	}

	if _, err := querier.ExecContext(ctx, `UPDATE secrets SET current_version_id = ?, updated_at = ? WHERE id = ?`,
		versionID, time.Now().UTC(), seriesID); err != nil {
		return apperrors.Wrap(err, "failed to set current version")
	}
	return nil
}

// SetExpiration implements SecretRepository.
func (m *MySQLSecretRepository) SetExpiration(ctx context.Context, name string, expiry int64) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `
		UPDATE secrets_content c
		JOIN secrets s ON s.current_version_id = c.id
		SET c.expiry = ?
		WHERE s.name = ? AND s.deleted_at IS NULL`,
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
func (m *MySQLSecretRepository) DeleteSecretsByName(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `UPDATE secrets SET deleted_at = ? WHERE name = ? AND deleted_at IS NULL`,
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

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
