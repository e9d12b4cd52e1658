package issuance

import "errors"

var (
	// ErrAccountRequired is returned when no account handle is configured.
	ErrAccountRequired = errors.New("account is required")

	// ErrNoDomains is returned when the domain list is empty.
	ErrNoDomains = errors.New("at least one domain is required")

	// ErrNoChallengeStrategy is returned when the order requires challenges
	// but no challenge strategy is configured, so no path exists to satisfy
	// them.
	ErrNoChallengeStrategy = errors.New("order requires challenges but no challenge strategy is configured")

	// ErrChallengeUnavailable is returned when an authorization does not
	// offer the challenge type the configured strategy needs.
	ErrChallengeUnavailable = errors.New("challenge type not offered by authorization")

	// ErrPollTimeout is the sentinel that Order implementations must wrap
	// when PollStatus exhausts its budget. The readiness probe treats exactly
	// this error as "not ready yet"; everywhere else it is fatal.
	ErrPollTimeout = errors.New("status poll timed out")
)
