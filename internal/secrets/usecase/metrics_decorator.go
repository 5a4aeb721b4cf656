package usecase

import (
	"context"
	"time"

	"github.com/allisson/keyhouse/internal/metrics"
	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
)

// controllerWithMetrics decorates Controller with business metrics.
type controllerWithMetrics struct {
	next    Controller
	metrics metrics.BusinessMetrics
}

// NewControllerWithMetrics wraps a Controller with metrics recording.
func NewControllerWithMetrics(next Controller, m metrics.BusinessMetrics) Controller {
	return &controllerWithMetrics{next: next, metrics: m}
}

func (c *controllerWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordOperation(ctx, "secrets", operation, status)
	c.metrics.RecordDuration(ctx, "secrets", operation, time.Since(start), status)
}

func (c *controllerWithMetrics) Create(ctx context.Context, req CreateSecretRequest) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := c.next.Create(ctx, req)
	c.record(ctx, "secret_create", start, err)
	return secret, err
}

func (c *controllerWithMetrics) CreateOrUpdate(
	ctx context.Context,
	req CreateOrUpdateSecretRequest,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := c.next.CreateOrUpdate(ctx, req)
	c.record(ctx, "secret_createorupdate", start, err)
	return secret, err
}

func (c *controllerWithMetrics) GetByID(ctx context.Context, id int64) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := c.next.GetByID(ctx, id)
	c.record(ctx, "secret_get_by_id", start, err)
	return secret, err
}

func (c *controllerWithMetrics) GetByName(ctx context.Context, name string) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := c.next.GetByName(ctx, name)
	c.record(ctx, "secret_get_by_name", start, err)
	return secret, err
}

func (c *controllerWithMetrics) ListNames(ctx context.Context) ([]secretsDomain.NameID, error) {
	start := time.Now()
	names, err := c.next.ListNames(ctx)
	c.record(ctx, "secret_list_names", start, err)
	return names, err
}

func (c *controllerWithMetrics) ListSecrets(
	ctx context.Context,
	maxExpiry *int64,
	groupID *int64,
) ([]secretsDomain.SanitizedSecret, error) {
	start := time.Now()
	secrets, err := c.next.ListSecrets(ctx, maxExpiry, groupID)
	c.record(ctx, "secret_list", start, err)
	return secrets, err
}

func (c *controllerWithMetrics) GetVersionsByName(
	ctx context.Context,
	name string,
	offset, count int,
) ([]secretsDomain.SecretContent, error) {
	start := time.Now()
	versions, err := c.next.GetVersionsByName(ctx, name, offset, count)
	c.record(ctx, "secret_get_versions", start, err)
	return versions, err
}

func (c *controllerWithMetrics) SetCurrentVersionByName(
	ctx context.Context, name string, versionID int64, actor string,
) error {
	start := time.Now()
	err := c.next.SetCurrentVersionByName(ctx, name, versionID, actor)
	c.record(ctx, "secret_set_current_version", start, err)
	return err
}

func (c *controllerWithMetrics) SetExpiration(ctx context.Context, name string, expiry int64) (bool, error) {
	start := time.Now()
	ok, err := c.next.SetExpiration(ctx, name, expiry)
	c.record(ctx, "secret_set_expiration", start, err)
	return ok, err
}

func (c *controllerWithMetrics) DeleteSecretsByName(ctx context.Context, name string, actor string) error {
	start := time.Now()
	err := c.next.DeleteSecretsByName(ctx, name, actor)
	c.record(ctx, "secret_delete", start, err)
	return err
}

func (c *controllerWithMetrics) BackfillExpiration(
	ctx context.Context,
	name string,
	passwords []string,
	actor string,
) (bool, error) {
	start := time.Now()
	ok, err := c.next.BackfillExpiration(ctx, name, passwords, actor)
	c.record(ctx, "secret_backfill_expiration", start, err)
	return ok, err
}
