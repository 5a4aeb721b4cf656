package app

import (
	expiryService "github.com/allisson/keyhouse/internal/expiry/service"
)

// Extractor returns the expiry extractor used by BackfillExpiration to
// infer an expiry date from secret content it hasn't recorded one for yet.
func (c *Container) Extractor() expiryService.Extractor {
	c.extractorInit.Do(func() {
		c.extractor = expiryService.NewExtractor()
	})
	return c.extractor
}
