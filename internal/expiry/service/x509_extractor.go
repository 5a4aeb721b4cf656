package service

import (
	"crypto/x509"
	"encoding/pem"
	"time"

	expiryDomain "github.com/allisson/keyhouse/internal/expiry/domain"
)

// extractX509 parses every PEM-encoded certificate block in payload and
// returns the minimum NotAfter across the chain, matching the behavior of a
// leaf cert expiring before any intermediate in the same file.
func extractX509(payload []byte) (*time.Time, error) {
	var minNotAfter *time.Time

	rest := payload
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			continue
		}

		if minNotAfter == nil || cert.NotAfter.Before(*minNotAfter) {
			notAfter := cert.NotAfter
			minNotAfter = &notAfter
		}
	}

	if minNotAfter == nil {
		return nil, expiryDomain.ErrExtractionFailed
	}
	return minNotAfter, nil
}
