package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/keyhouse/internal/crypto/domain"
)

// hkdfInfoContent and hkdfInfoHMAC are the HKDF "info" labels used to derive
// independent subkeys from the same master key. Using distinct labels means
// a leaked content key reveals nothing about the HMAC key, and vice versa.
const (
	hkdfInfoContent = "keyhouse.content.v1"
	hkdfInfoHMAC    = "keyhouse.hmac.v1"
)

// Cryptographer derives per-name content and HMAC keys from a single master
// key and performs authenticated encryption, decryption, and fingerprinting.
//
// Unlike an envelope-encryption scheme that persists a DEK alongside each
// piece of ciphertext, Cryptographer derives keys deterministically: the
// same name always derives the same content key, so no per-secret key
// material is ever stored. Rotating the master key rotates every derived
// key implicitly.
//
// Implementation: contentCryptographer
type Cryptographer interface {
	// Encrypt derives the content key for name and encrypts plaintext with it.
	// The returned ciphertext is not self-describing beyond the AEAD tag; the
	// nonce must be stored alongside it for later decryption.
	Encrypt(ctx context.Context, name string, plaintext []byte) (ciphertext, nonce []byte, err error)

	// Decrypt derives the content key for name and decrypts ciphertext using nonce.
	Decrypt(ctx context.Context, name string, ciphertext, nonce []byte) ([]byte, error)

	// ComputeHMAC returns an HMAC-SHA256 fingerprint over data using a key
	// independent of name. Callers pass the base64-encoded wire
	// representation of secret content, not the decoded plaintext, so the
	// same bytes that crossed the wire can always be re-verified.
	ComputeHMAC(ctx context.Context, name string, data []byte) ([]byte, error)
}

// contentCryptographer implements Cryptographer using HKDF-SHA256 subkey
// derivation over a master key resolved from a MasterKeyProvider.
type contentCryptographer struct {
	aeadManager       AEADManager
	masterKeyProvider MasterKeyProvider
	algorithm         cryptoDomain.Algorithm
}

// NewCryptographer creates a Cryptographer backed by aeadManager for cipher
// construction and masterKeyProvider for master key resolution. algorithm
// selects AESGCM or ChaCha20 for all derived-key encryption operations.
func NewCryptographer(
	aeadManager AEADManager,
	masterKeyProvider MasterKeyProvider,
	algorithm cryptoDomain.Algorithm,
) Cryptographer {
	return &contentCryptographer{
		aeadManager:       aeadManager,
		masterKeyProvider: masterKeyProvider,
		algorithm:         algorithm,
	}
}

// deriveKey runs HKDF-SHA256 over the master key with name as salt and info
// as the context label, producing a 32-byte subkey.
func (c *contentCryptographer) deriveKey(ctx context.Context, name, info string) ([]byte, error) {
	masterKey, err := c.masterKeyProvider.MasterKey(ctx)
	if err != nil {
		return nil, err
	}
	if len(masterKey) != 32 {
		return nil, cryptoDomain.ErrInvalidMasterKeySize
	}

	reader := hkdf.New(sha256.New, masterKey, []byte(name), []byte(info))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return key, nil
}

// deriveHMACKey runs HKDF-SHA256 over the master key with no salt, so the
// fingerprint key is the same for every name and a leaked fingerprint of
// one secret's content never narrows down which name it belongs to.
func (c *contentCryptographer) deriveHMACKey(ctx context.Context) ([]byte, error) {
	masterKey, err := c.masterKeyProvider.MasterKey(ctx)
	if err != nil {
		return nil, err
	}
	if len(masterKey) != 32 {
		return nil, cryptoDomain.ErrInvalidMasterKeySize
	}

	reader := hkdf.New(sha256.New, masterKey, nil, []byte(hkdfInfoHMAC))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return key, nil
}

// Encrypt implements Cryptographer.
func (c *contentCryptographer) Encrypt(
	ctx context.Context,
	name string,
	plaintext []byte,
) (ciphertext, nonce []byte, err error) {
	key, err := c.deriveKey(ctx, name, hkdfInfoContent)
	if err != nil {
		return nil, nil, err
	}
	defer cryptoDomain.Zero(key)

	cipher, err := c.aeadManager.CreateCipher(key, c.algorithm)
	if err != nil {
		return nil, nil, err
	}
	return cipher.Encrypt(plaintext, []byte(name))
}

// Decrypt implements Cryptographer.
func (c *contentCryptographer) Decrypt(
	ctx context.Context,
	name string,
	ciphertext, nonce []byte,
) ([]byte, error) {
	key, err := c.deriveKey(ctx, name, hkdfInfoContent)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	cipher, err := c.aeadManager.CreateCipher(key, c.algorithm)
	if err != nil {
		return nil, err
	}
	return cipher.Decrypt(ciphertext, nonce, []byte(name))
}

// ComputeHMAC implements Cryptographer. name is accepted for interface
// symmetry with Encrypt/Decrypt but does not influence the HMAC key: the
// fingerprint key is independent of secret name.
func (c *contentCryptographer) ComputeHMAC(ctx context.Context, _ string, data []byte) ([]byte, error) {
	key, err := c.deriveHMACKey(ctx)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil), nil
}
