package service

import (
	"encoding/base64"

	cryptoDomain "github.com/allisson/keyhouse/internal/crypto/domain"
)

// nonceSize is the nonce length produced by both supported AEAD
// constructions (AES-256-GCM and ChaCha20-Poly1305 both use a 12-byte
// nonce), letting the envelope format carry one fixed-size prefix
// regardless of which algorithm encrypted it.
const nonceSize = 12

// EncodeCiphertext packs a nonce and ciphertext into the single
// self-describing string persisted in secrets_content.encrypted_content.
func EncodeCiphertext(nonce, ciphertext []byte) (string, error) {
	if len(nonce) != nonceSize {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	buf := make([]byte, 0, len(nonce)+len(ciphertext))
	buf = append(buf, nonce...)
	buf = append(buf, ciphertext...)
	return base64.StdEncoding.EncodeToString(buf), nil
}

// DecodeCiphertext splits a persisted envelope back into its nonce and
// ciphertext.
func DecodeCiphertext(encoded string) (nonce, ciphertext []byte, err error) {
	buf, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, nil, cryptoDomain.ErrDecryptionFailed
	}
	if len(buf) < nonceSize {
		return nil, nil, cryptoDomain.ErrDecryptionFailed
	}
	return buf[:nonceSize], buf[nonceSize:], nil
}
