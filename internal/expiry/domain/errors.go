// Package domain defines the types shared by the expiration extraction
// decoders: X.509 chains, OpenPGP keys, and password-protected keystores.
package domain

import (
	"github.com/allisson/keyhouse/internal/errors"
)

// ErrExtractionFailed indicates the payload matched a known suffix but could
// not be parsed (corrupt data, or every candidate password failed to open a
// keystore). This is a distinct outcome from "unknown format" — it is still
// not treated as an error by callers, since backfill simply reports false.
var ErrExtractionFailed = errors.Wrap(errors.ErrInvalidInput, "extraction failed")
