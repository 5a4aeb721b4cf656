package service

import (
	"time"

	"software.sslmate.com/src/go-pkcs12"

	expiryDomain "github.com/allisson/keyhouse/internal/expiry/domain"
)

// extractPKCS12 tries each candidate password (plus the empty password) to
// decode a PKCS#12/PFX keystore, returning the decoded certificate's
// NotAfter on the first password that opens it.
func extractPKCS12(payload []byte, passwords []string) (*time.Time, error) {
	for _, password := range passwordCandidates(passwords) {
		_, cert, err := pkcs12.Decode(payload, password)
		if err != nil {
			continue
		}
		notAfter := cert.NotAfter
		return &notAfter, nil
	}
	return nil, expiryDomain.ErrExtractionFailed
}
