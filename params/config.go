package params

import (
	"fmt"
)

// ServiceConfig is the top level configuration of the swap service.
type ServiceConfig struct {
	Networks []Network `json:"networks" validate:"required,min=1,dive"`

	// QuoteTTLSeconds bounds how long fetched quotes are served from cache.
	QuoteTTLSeconds int `json:"quoteTtlSeconds"`

	// LogEnabled enables the logger
	LogEnabled bool `json:"logEnabled"`

	// LogFile is filename where exposed logs get written to
	LogFile string `json:"logFile"`

	// LogLevel defines minimum log level. Valid names are "ERROR", "WARN", "INFO" and "DEBUG".
	LogLevel string `json:"logLevel" validate:"omitempty,eq=ERROR|eq=WARN|eq=INFO|eq=DEBUG"`

	// LogMaxBackups defines how many log rotations to keep.
	LogMaxBackups int `json:"logMaxBackups"`

	// LogMaxSize is the maximum size of a log file, in megabytes, before rotation.
	LogMaxSize int `json:"logMaxSize"`

	// LogCompressRotated gzips rotated log files.
	LogCompressRotated bool `json:"logCompressRotated"`
}

const defaultQuoteTTLSeconds = 30

// DefaultServiceConfig returns a config covering the known deployments with
// sane logging defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Networks:           DefaultNetworks(),
		QuoteTTLSeconds:    defaultQuoteTTLSeconds,
		LogEnabled:         true,
		LogLevel:           "INFO",
		LogMaxBackups:      3,
		LogMaxSize:         20,
		LogCompressRotated: true,
	}
}

// Validate checks the config struct tags and the uniqueness of chain IDs.
func (c *ServiceConfig) Validate() error {
	validate := NewValidator()
	if err := validate.Struct(c); err != nil {
		return err
	}

	seen := make(map[uint64]bool, len(c.Networks))
	for _, network := range c.Networks {
		if seen[network.ChainID] {
			return fmt.Errorf("duplicate network for chain %d", network.ChainID)
		}
		seen[network.ChainID] = true
	}
	return nil
}

// NetworkByChainID finds the configured network for a chain, or nil.
func (c *ServiceConfig) NetworkByChainID(chainID uint64) *Network {
	for i := range c.Networks {
		if c.Networks[i].ChainID == chainID {
			return &c.Networks[i]
		}
	}
	return nil
}

// QuoteTTLOrDefault falls back to the default when unset.
func (c *ServiceConfig) QuoteTTLOrDefault() int {
	if c.QuoteTTLSeconds <= 0 {
		return defaultQuoteTTLSeconds
	}
	return c.QuoteTTLSeconds
}
