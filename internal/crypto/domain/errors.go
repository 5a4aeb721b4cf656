// Package domain defines core cryptographic domain models: the AEAD algorithm
// choice and the errors produced by key derivation and content encryption.
package domain

import (
	"github.com/allisson/keyhouse/internal/errors"
)

// Cryptographic operation errors.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid (must be 32 bytes).
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates decryption failed due to wrong key or corrupted data.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrMasterKeyNotSet indicates no master key material is available to derive from.
	ErrMasterKeyNotSet = errors.Wrap(errors.ErrInvalidInput, "master key not set")

	// ErrInvalidMasterKeySize indicates the resolved master key is not 32 bytes.
	ErrInvalidMasterKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid master key size")

	// ErrKMSProviderNotSet names a KMS_PROVIDER setting that Config does not read; no code path
	// returns it (the keeper driver is chosen by the KMS_KEY_URI scheme).
	ErrKMSProviderNotSet = errors.Wrap(
		errors.ErrInvalidInput,
		"KMS_PROVIDER is required but not configured (use 'localsecrets' for local development)",
	)

	// ErrKMSKeyURINotSet indicates the KMS_KEY_URI environment variable is not configured (required).
	ErrKMSKeyURINotSet = errors.Wrap(
		errors.ErrInvalidInput,
		"KMS_KEY_URI is required but not configured",
	)

	// ErrKMSDecryptionFailed indicates KMS decryption of the master key failed.
	ErrKMSDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "KMS decryption failed")

	// ErrKMSOpenKeeperFailed indicates opening the KMS keeper failed.
	ErrKMSOpenKeeperFailed = errors.Wrap(errors.ErrInvalidInput, "failed to open KMS keeper")
)
