package service

import (
	"context"
	"sync"

	"gocloud.dev/secrets"
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	cryptoDomain "github.com/allisson/keyhouse/internal/crypto/domain"
)

// MasterKeyProvider resolves the single master key that every derived
// content and HMAC key is built from.
//
// Implementation: kmsMasterKeyProvider
type MasterKeyProvider interface {
	// MasterKey returns the 32-byte master key. Implementations should cache
	// the resolved key in memory rather than calling out to a KMS on every
	// invocation.
	MasterKey(ctx context.Context) ([]byte, error)
}

// kmsMasterKeyProvider resolves the master key once through a gocloud.dev/secrets
// keeper and caches the decrypted result for the lifetime of the process.
//
// keyURI selects the provider-specific key reference, e.g.
// "awskms://alias/keyhouse-master", "hashivault://keyhouse-master", or
// "base64key://<32-byte-base64-key>" for local development via localsecrets.
// encryptedMasterKey is the ciphertext blob the keeper decrypts into the raw
// 32-byte master key; it is required for every driver, localsecrets included.
type kmsMasterKeyProvider struct {
	keyURI             string
	encryptedMasterKey []byte
	resolveOnce        sync.Once
	resolveErr         error
	masterKey          []byte
}

// NewMasterKeyProvider returns a provider for keyURI. encryptedMasterKey is
// the ciphertext the keeper will decrypt to recover the master key. The
// keeper is opened on the first MasterKey call; an empty encryptedMasterKey
// makes that call fail with ErrMasterKeyNotSet, whatever the driver.
func NewMasterKeyProvider(keyURI string, encryptedMasterKey []byte) (MasterKeyProvider, error) {
	if keyURI == "" {
		return nil, cryptoDomain.ErrKMSKeyURINotSet
	}
	return &kmsMasterKeyProvider{
		keyURI:             keyURI,
		encryptedMasterKey: encryptedMasterKey,
	}, nil
}

// MasterKey implements MasterKeyProvider.
func (p *kmsMasterKeyProvider) MasterKey(ctx context.Context) ([]byte, error) {
	p.resolveOnce.Do(func() {
		p.masterKey, p.resolveErr = p.resolve(ctx)
	})
	return p.masterKey, p.resolveErr
}

func (p *kmsMasterKeyProvider) resolve(ctx context.Context) ([]byte, error) {
	keeper, err := secrets.OpenKeeper(ctx, p.keyURI)
	if err != nil {
		return nil, cryptoDomain.ErrKMSOpenKeeperFailed
	}
	defer keeper.Close()

	if len(p.encryptedMasterKey) == 0 {
		return nil, cryptoDomain.ErrMasterKeyNotSet
	}

	plaintext, err := keeper.Decrypt(ctx, p.encryptedMasterKey)
	if err != nil {
		return nil, cryptoDomain.ErrKMSDecryptionFailed
	}
	if len(plaintext) != 32 {
		return nil, cryptoDomain.ErrInvalidMasterKeySize
	}
	return plaintext, nil
}

// staticMasterKeyProvider returns a fixed in-memory master key, supplied
// directly (e.g. from the MASTER_KEY environment variable) rather than
// resolved from a KMS keeper. Used for local development, where no keeper
// round trip takes place.
type staticMasterKeyProvider struct {
	masterKey []byte
}

// NewStaticMasterKeyProvider wraps a 32-byte master key that was already
// resolved (e.g. read directly from configuration) as a MasterKeyProvider.
func NewStaticMasterKeyProvider(masterKey []byte) (MasterKeyProvider, error) {
	if len(masterKey) != 32 {
		return nil, cryptoDomain.ErrInvalidMasterKeySize
	}
	return &staticMasterKeyProvider{masterKey: masterKey}, nil
}

// MasterKey implements MasterKeyProvider.
func (p *staticMasterKeyProvider) MasterKey(_ context.Context) ([]byte, error) {
	return p.masterKey, nil
}
