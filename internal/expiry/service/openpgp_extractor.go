package service

import (
	"bytes"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	expiryDomain "github.com/allisson/keyhouse/internal/expiry/domain"
)

// extractOpenPGP parses an OpenPGP key (armored or binary) and returns the
// earliest expiry among the primary key and its subkeys. A key with no
// lifetime set on any of its signatures has no known expiry, which is a
// successful "unknown" outcome, not a failure.
func extractOpenPGP(payload []byte) (*time.Time, error) {
	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(payload))
	if err != nil {
		entities, err = openpgp.ReadKeyRing(bytes.NewReader(payload))
		if err != nil {
			return nil, expiryDomain.ErrExtractionFailed
		}
	}
	if len(entities) == 0 {
		return nil, expiryDomain.ErrExtractionFailed
	}

	var earliest *time.Time
	for _, entity := range entities {
		if entity.PrimaryKey == nil {
			continue
		}

		for _, identity := range entity.Identities {
			if expiry := keyExpiry(entity.PrimaryKey.CreationTime, identity.SelfSignature); expiry != nil {
				earliest = minTime(earliest, expiry)
			}
		}

		for _, subkey := range entity.Subkeys {
			if subkey.PublicKey == nil {
				continue
			}
			if expiry := keyExpiry(subkey.PublicKey.CreationTime, subkey.Sig); expiry != nil {
				earliest = minTime(earliest, expiry)
			}
		}
	}

	return earliest, nil
}

func keyExpiry(creationTime time.Time, sig *packet.Signature) *time.Time {
	if sig == nil || sig.KeyLifetimeSecs == nil {
		return nil
	}
	expiry := creationTime.Add(time.Duration(*sig.KeyLifetimeSecs) * time.Second)
	return &expiry
}

func minTime(current, candidate *time.Time) *time.Time {
	if current == nil {
		return candidate
	}
	if candidate.Before(*current) {
		return candidate
	}
	return current
}
