package acme

import (
	"time"

	"github.com/certflow/certflow/core/keys"
)

// LetsEncryptProduction is the default ACME directory.
const LetsEncryptProduction = "https://acme-v02.api.letsencrypt.org/directory"

// LetsEncryptStaging is the Let's Encrypt staging directory, for testing
// against relaxed rate limits.
const LetsEncryptStaging = "https://acme-staging-v02.api.letsencrypt.org/directory"

// Config holds the connection settings for one registered ACME account.
// The account itself (registration, key rollover) is managed out of band.
type Config struct {
	// DirectoryURL is the ACME directory endpoint.
	DirectoryURL string `env:"ACME_DIRECTORY_URL" envDefault:"https://acme-v02.api.letsencrypt.org/directory"`

	// AccountURL is the key identifier (kid) of the registered account.
	AccountURL string `env:"ACME_ACCOUNT_URL,required"`

	// AccountKeyPEM is the account's private key in PKCS#8 or traditional
	// PEM encoding.
	AccountKeyPEM string `env:"ACME_ACCOUNT_KEY,required"`

	// UserAgent identifies this client to the authority.
	UserAgent string `env:"ACME_USER_AGENT" envDefault:"certflow/1.0"`

	// HTTPTimeout bounds each request to the authority.
	HTTPTimeout time.Duration `env:"ACME_HTTP_TIMEOUT" envDefault:"30s"`

	// PollInterval is the pause between order status polls.
	PollInterval time.Duration `env:"ACME_POLL_INTERVAL" envDefault:"2s"`

	// CertificateKeyAlgorithm selects the key algorithm for issued
	// certificates: "ec", "rsa", or "rsa-4096".
	CertificateKeyAlgorithm string `env:"ACME_CERT_KEY_ALGORITHM" envDefault:"ec"`
}

func (cfg *Config) applyDefaults() error {
	if cfg.DirectoryURL == "" {
		return ErrDirectoryRequired
	}
	if cfg.AccountURL == "" {
		return ErrAccountURLRequired
	}
	if cfg.AccountKeyPEM == "" {
		return ErrAccountKeyRequired
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = "certflow/1.0"
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.CertificateKeyAlgorithm == "" {
		cfg.CertificateKeyAlgorithm = string(keys.EC)
	}
	if !keys.Algorithm(cfg.CertificateKeyAlgorithm).Valid() {
		return keys.ErrUnsupportedAlgorithm
	}
	return nil
}
