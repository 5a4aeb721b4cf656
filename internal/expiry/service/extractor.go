// Package service implements expiration extraction from opaque secret
// payloads: X.509 certificate chains, OpenPGP keys, and password-protected
// PKCS#12/JKS/JCEKS keystores.
package service

import (
	"strings"
	"time"
)

// Extractor recovers an expiration instant from a secret's raw bytes, using
// its filename's suffix to select a decoder.
//
// Implementation: suffixExtractor
type Extractor interface {
	// Extract returns the expiration instant for payload, dispatching on
	// name's suffix. A nil time with a nil error means the suffix is not one
	// of the known formats (unrecognized, not a failure), or the payload was
	// opened but yielded no expiration (for example a keystore with no entry
	// carrying a parseable certificate). A nil time with
	// ErrExtractionFailed means the suffix was recognized but the payload
	// could not be parsed or no password opened it. passwords is never
	// mutated; callers may reuse it across calls.
	Extract(name string, payload []byte, passwords []string) (*time.Time, error)
}

// suffixExtractor dispatches decoding by filename suffix: a switch on the
// discriminant, one constructor per branch.
type suffixExtractor struct{}

// NewExtractor creates a suffix-dispatching Extractor.
func NewExtractor() Extractor {
	return &suffixExtractor{}
}

// Extract implements Extractor.
func (e *suffixExtractor) Extract(name string, payload []byte, passwords []string) (*time.Time, error) {
	switch suffix(name) {
	case ".crt", ".pem", ".key":
		return extractX509(payload)
	case ".gpg", ".pgp":
		return extractOpenPGP(payload)
	case ".p12", ".pfx":
		return extractPKCS12(payload, passwords)
	case ".jceks", ".jks":
		return extractJKS(payload, passwords)
	default:
		return nil, nil
	}
}

func suffix(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx:])
}

// passwordCandidates returns a fresh copy of passwords with the empty
// password appended, so the trial loop never mutates the caller's slice and
// always tries "no password" last.
func passwordCandidates(passwords []string) []string {
	candidates := make([]string, 0, len(passwords)+1)
	candidates = append(candidates, passwords...)
	candidates = append(candidates, "")
	return candidates
}

func unixToTime(seconds int64) *time.Time {
	t := time.Unix(seconds, 0).UTC()
	return &t
}
