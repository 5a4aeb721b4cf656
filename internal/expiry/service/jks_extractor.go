package service

import (
	"bytes"
	"crypto/x509"
	"time"

	"github.com/pavlo-v-chernykh/keystore-go/v4"

	expiryDomain "github.com/allisson/keyhouse/internal/expiry/domain"
)

// extractJKS tries each candidate password (plus the empty password) to load
// a JCEKS/JKS keystore. With the first password that loads it, it walks the
// aliases in the keystore's order and returns the earliest NotAfter in the
// certificate chain of the first private-key or trusted-certificate entry
// that has a parseable certificate; entries without one are skipped. A
// keystore that loads but has no such entry yields nil, nil.
func extractJKS(payload []byte, passwords []string) (*time.Time, error) {
	for _, password := range passwordCandidates(passwords) {
		ks := keystore.New()
		if err := ks.Load(bytes.NewReader(payload), []byte(password)); err != nil {
			continue
		}

		for _, alias := range ks.Aliases() {
			if notAfter := jksEntryExpiry(ks, alias, password); notAfter != nil {
				return notAfter, nil
			}
		}
		return nil, nil
	}
	return nil, expiryDomain.ErrExtractionFailed
}

func jksEntryExpiry(ks keystore.KeyStore, alias, password string) *time.Time {
	if ks.IsPrivateKeyEntry(alias) {
		entry, err := ks.GetPrivateKeyEntry(alias, []byte(password))
		if err != nil || len(entry.CertificateChain) == 0 {
			return nil
		}
		return certChainExpiry(entry.CertificateChain)
	}

	if ks.IsTrustedCertificateEntry(alias) {
		entry, err := ks.GetTrustedCertificateEntry(alias)
		if err != nil {
			return nil
		}
		return certChainExpiry([]keystore.Certificate{entry.Certificate})
	}

	return nil
}

func certChainExpiry(chain []keystore.Certificate) *time.Time {
	var earliest *time.Time
	for _, entry := range chain {
		cert, err := x509.ParseCertificate(entry.Content)
		if err != nil {
			continue
		}
		notAfter := cert.NotAfter
		earliest = minTime(earliest, &notAfter)
	}
	return earliest
}
