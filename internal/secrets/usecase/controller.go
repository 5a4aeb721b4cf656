package usecase

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"strconv"

	auditDomain "github.com/allisson/keyhouse/internal/audit/domain"
	auditUsecase "github.com/allisson/keyhouse/internal/audit/usecase"
	cryptoService "github.com/allisson/keyhouse/internal/crypto/service"
	"github.com/allisson/keyhouse/internal/database"
	apperrors "github.com/allisson/keyhouse/internal/errors"
	expiryService "github.com/allisson/keyhouse/internal/expiry/service"
	secretsDomain "github.com/allisson/keyhouse/internal/secrets/domain"
	"github.com/allisson/keyhouse/internal/secrets/repository"
)

// controller implements Controller.
type controller struct {
	txManager     database.TxManager
	repo          repository.SecretRepository
	cryptographer cryptoService.Cryptographer
	extractor     expiryService.Extractor
	accessGranter AccessGranter
	recorder      auditUsecase.Recorder
}

// NewController assembles the Secret Controller from its collaborators.
func NewController(
	txManager database.TxManager,
	repo repository.SecretRepository,
	cryptographer cryptoService.Cryptographer,
	extractor expiryService.Extractor,
	accessGranter AccessGranter,
	recorder auditUsecase.Recorder,
) Controller {
	return &controller{
		txManager:     txManager,
		repo:          repo,
		cryptographer: cryptographer,
		extractor:     extractor,
		accessGranter: accessGranter,
		recorder:      recorder,
	}
}

// record appends an audit event for a state change that has already
// committed. A nil recorder is a no-op, so tests that don't care about the
// audit trail can omit one.
func (c *controller) record(ctx context.Context, tag auditDomain.Tag, actor, target string, extraInfo map[string]string) error {
	if c.recorder == nil {
		return nil
	}
	return c.recorder.Record(ctx, tag, actor, target, extraInfo)
}

// secretBuild holds the state threaded through the five-step compose flow.
// It is populated field by field and run once via its terminal method; it
// is not a fluent chain of methods each returning a new builder.
type secretBuild struct {
	name              string
	wireContent       []byte
	creator           string
	description       string
	metadata          map[string]string
	secretType        string
	expiry            int64
	generationOptions map[string]string

	hmacHex          string
	encryptedContent string
}

func (b *secretBuild) validate() error {
	if b.name == "" || len(b.wireContent) == 0 || b.creator == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "name, content and creator are required")
	}
	return nil
}

func (b *secretBuild) compose(ctx context.Context, cryptographer cryptoService.Cryptographer) error {
	mac, err := cryptographer.ComputeHMAC(ctx, b.name, b.wireContent)
	if err != nil {
		return err
	}
	b.hmacHex = hex.EncodeToString(mac)

	plaintext, err := base64.StdEncoding.DecodeString(string(b.wireContent))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "content is not valid base64")
	}

	ciphertext, nonce, err := cryptographer.Encrypt(ctx, b.name, plaintext)
	if err != nil {
		return err
	}
	b.encryptedContent, err = cryptoService.EncodeCiphertext(nonce, ciphertext)
	return err
}

func (b *secretBuild) toCreateInput() repository.CreateSecretInput {
	return repository.CreateSecretInput{
		Name:              b.name,
		EncryptedContent:  b.encryptedContent,
		HMAC:              b.hmacHex,
		Creator:           b.creator,
		Metadata:          b.metadata,
		Expiry:            b.expiry,
		Description:       b.description,
		Type:              b.secretType,
		GenerationOptions: b.generationOptions,
	}
}

// Create implements Controller.
func (c *controller) Create(ctx context.Context, req CreateSecretRequest) (*secretsDomain.Secret, error) {
	build := &secretBuild{
		name:              req.Name,
		wireContent:       req.Content,
		creator:           req.Creator,
		description:       req.Description,
		metadata:          req.Metadata,
		secretType:        req.Type,
		expiry:            req.Expiry,
		generationOptions: req.GenerationOptions,
	}
	if err := build.validate(); err != nil {
		return nil, err
	}
	if err := build.compose(ctx, c.cryptographer); err != nil {
		return nil, err
	}

	var secret *secretsDomain.Secret
	err := c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		secret, err = c.repo.CreateSecret(txCtx, build.toCreateInput())
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.record(ctx, auditDomain.TagSecretCreate, req.Creator, req.Name, map[string]string{
		"description": req.Description,
	}); err != nil {
		return nil, err
	}

	if len(req.Groups) > 0 && c.accessGranter != nil {
		if err := c.accessGranter.GrantByNames(ctx, secret.Series.ID, req.Groups, req.Creator); err != nil {
			return nil, err
		}
	}

	return secret, nil
}

// CreateOrUpdate implements Controller.
func (c *controller) CreateOrUpdate(
	ctx context.Context,
	req CreateOrUpdateSecretRequest,
) (*secretsDomain.Secret, error) {
	build := &secretBuild{
		name:              req.Name,
		wireContent:       req.Content,
		creator:           req.Creator,
		description:       req.Description,
		metadata:          req.Metadata,
		secretType:        req.Type,
		expiry:            req.Expiry,
		generationOptions: req.GenerationOptions,
	}
	if err := build.validate(); err != nil {
		return nil, err
	}
	if err := build.compose(ctx, c.cryptographer); err != nil {
		return nil, err
	}

	var secret *secretsDomain.Secret
	err := c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		secret, err = c.repo.CreateOrUpdateSecret(txCtx, build.toCreateInput())
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.record(ctx, auditDomain.TagSecretCreateOrUpdate, req.Creator, req.Name, map[string]string{
		"description": req.Description,
		"version":     strconv.FormatInt(secret.Content.ID, 10),
	}); err != nil {
		return nil, err
	}

	return secret, nil
}

// GetByID implements Controller.
func (c *controller) GetByID(ctx context.Context, id int64) (*secretsDomain.Secret, error) {
	return c.repo.GetByID(ctx, id)
}

// GetByName implements Controller.
func (c *controller) GetByName(ctx context.Context, name string) (*secretsDomain.Secret, error) {
	return c.repo.GetByName(ctx, name)
}

// ListNames implements Controller.
func (c *controller) ListNames(ctx context.Context) ([]secretsDomain.NameID, error) {
	return c.repo.ListNames(ctx)
}

// ListSecrets implements Controller.
func (c *controller) ListSecrets(
	ctx context.Context,
	maxExpiry *int64,
	groupID *int64,
) ([]secretsDomain.SanitizedSecret, error) {
	secrets, err := c.repo.ListSecrets(ctx, maxExpiry, groupID)
	if err != nil {
		return nil, err
	}
	sanitized := make([]secretsDomain.SanitizedSecret, 0, len(secrets))
	for _, secret := range secrets {
		sanitized = append(sanitized, secretsDomain.Sanitize(secret))
	}
	return sanitized, nil
}

// GetVersionsByName implements Controller.
func (c *controller) GetVersionsByName(
	ctx context.Context,
	name string,
	offset, count int,
) ([]secretsDomain.SecretContent, error) {
	return c.repo.GetVersionsByName(ctx, name, offset, count)
}

// SetCurrentVersionByName implements Controller.
func (c *controller) SetCurrentVersionByName(ctx context.Context, name string, versionID int64, actor string) error {
	if err := c.repo.SetCurrentVersionByName(ctx, name, versionID); err != nil {
		return err
	}
	return c.record(ctx, auditDomain.TagSecretChangeVersion, actor, name, map[string]string{
		"version": strconv.FormatInt(versionID, 10),
	})
}

// SetExpiration implements Controller.
func (c *controller) SetExpiration(ctx context.Context, name string, expiry int64) (bool, error) {
	return c.repo.SetExpiration(ctx, name, expiry)
}

// DeleteSecretsByName implements Controller.
func (c *controller) DeleteSecretsByName(ctx context.Context, name string, actor string) error {
	if err := c.repo.DeleteSecretsByName(ctx, name); err != nil {
		return err
	}
	return c.record(ctx, auditDomain.TagSecretDelete, actor, name, nil)
}

// BackfillExpiration implements Controller.
func (c *controller) BackfillExpiration(
	ctx context.Context, name string, passwords []string, actor string,
) (bool, error) {
	secret, err := c.repo.GetByName(ctx, name)
	if err != nil {
		return false, err
	}

	nonce, ciphertext, err := cryptoService.DecodeCiphertext(secret.Content.EncryptedContent)
	if err != nil {
		return false, err
	}
	plaintext, err := c.cryptographer.Decrypt(ctx, name, ciphertext, nonce)
	if err != nil {
		return false, err
	}

	expiry, err := c.extractor.Extract(name, plaintext, passwords)
	if err != nil {
		return false, nil //nolint:nilerr // unrecognized format or every password candidate failed; not an error.
	}
	if expiry == nil {
		return false, nil
	}

	backfilled, err := c.repo.SetExpiration(ctx, name, expiry.Unix())
	if err != nil || !backfilled {
		return backfilled, err
	}

	if err := c.record(ctx, auditDomain.TagSecretBackfillExpiry, actor, name, map[string]string{
		"expiry": strconv.FormatInt(expiry.Unix(), 10),
	}); err != nil {
		return false, err
	}
	return true, nil
}
