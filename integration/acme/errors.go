package acme

import "errors"

var (
	// ErrDirectoryRequired is returned when no ACME directory URL is configured.
	ErrDirectoryRequired = errors.New("acme directory URL is required")

	// ErrAccountURLRequired is returned when the account URL (key identifier)
	// is missing.
	ErrAccountURLRequired = errors.New("acme account URL is required")

	// ErrAccountKeyRequired is returned when no account private key is
	// configured.
	ErrAccountKeyRequired = errors.New("acme account key is required")

	// ErrWrongChallengeType is returned when a dns-01 artifact is requested
	// from an http-01 challenge or vice versa.
	ErrWrongChallengeType = errors.New("artifact does not match challenge type")

	// ErrOrderFailed is returned when the authority moved the order to the
	// terminal invalid state.
	ErrOrderFailed = errors.New("order failed")

	// ErrCertificateNotReady is returned when the certificate is fetched
	// before the authority published its URL.
	ErrCertificateNotReady = errors.New("certificate URL not available yet")
)
