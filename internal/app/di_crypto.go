package app

import (
	"fmt"

	cryptoDomain "github.com/allisson/keyhouse/internal/crypto/domain"
	cryptoService "github.com/allisson/keyhouse/internal/crypto/service"
)

// AEADManager returns the AEAD manager service used for all symmetric
// encryption in the crypto layer.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// MasterKeyProvider returns the master key provider, resolved either from a
// KMS keeper (KMSKeyURI + EncryptedMasterKey) or from a static in-config
// key, depending on which the configuration sets.
func (c *Container) MasterKeyProvider() (cryptoService.MasterKeyProvider, error) {
	var err error
	c.masterKeyProviderInit.Do(func() {
		c.masterKeyProvider, err = c.initMasterKeyProvider()
		if err != nil {
			c.initErrors["masterKeyProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKeyProvider"]; exists {
		return nil, storedErr
	}
	return c.masterKeyProvider, nil
}

func (c *Container) initMasterKeyProvider() (cryptoService.MasterKeyProvider, error) {
	if len(c.config.MasterKey) > 0 {
		return cryptoService.NewStaticMasterKeyProvider(c.config.MasterKey)
	}
	return cryptoService.NewMasterKeyProvider(c.config.KMSKeyURI, c.config.EncryptedMasterKey)
}

// Cryptographer returns the derived-key content/HMAC cryptographer used by
// the secret controller.
func (c *Container) Cryptographer() (cryptoService.Cryptographer, error) {
	var err error
	c.cryptographerInit.Do(func() {
		c.cryptographer, err = c.initCryptographer()
		if err != nil {
			c.initErrors["cryptographer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptographer"]; exists {
		return nil, storedErr
	}
	return c.cryptographer, nil
}

func (c *Container) initCryptographer() (cryptoService.Cryptographer, error) {
	masterKeyProvider, err := c.MasterKeyProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key provider for cryptographer: %w", err)
	}

	algorithm := cryptoDomain.Algorithm(c.config.CryptoAlgorithm)
	if algorithm == "" {
		algorithm = cryptoDomain.AESGCM
	}

	return cryptoService.NewCryptographer(c.AEADManager(), masterKeyProvider, algorithm), nil
}
