package issuance

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/certflow/certflow/core/dnscheck"
)

const (
	// DefaultTimeout is the budget for each real status poll and each
	// propagation confirmation.
	DefaultTimeout = 30 * time.Second

	// DefaultSettleDelay is the pause between the last propagation
	// confirmation and challenge submission, absorbing residual lag at
	// validating resolvers the authoritative check cannot see.
	DefaultSettleDelay = 5 * time.Second
)

// ChallengeStrategy selects how required challenges are satisfied. Exactly
// one variant can be configured, which removes the ambiguity of competing
// callbacks: DNSStrategy runs the dns-01 flow, HTTPStrategy the http-01 flow,
// and a nil strategy means any required challenge fails with
// ErrNoChallengeStrategy.
type ChallengeStrategy interface {
	challengeStrategy()
}

// DNSStrategy satisfies challenges by having an external system publish TXT
// records. UpdateRecords is invoked exactly once with the complete batch so
// the external system can perform one bulk zone update.
type DNSStrategy struct {
	UpdateRecords func(ctx context.Context, records []DNSRecord) error
}

func (DNSStrategy) challengeStrategy() {}

// HTTPStrategy satisfies challenges by having an external system serve
// well-known HTTP resources. UpdateResources is invoked exactly once with
// the complete batch.
type HTTPStrategy struct {
	UpdateResources func(ctx context.Context, resources []HTTPResource) error
}

func (HTTPStrategy) challengeStrategy() {}

// Config is the input to RequestCertificate.
type Config struct {
	// Account creates the order. Required.
	Account Account

	// Domains are the subjects of the order, in caller order. Required.
	Domains []string

	// Strategy selects the challenge flow. Leave nil when the authority is
	// expected to pre-authorize the domains.
	Strategy ChallengeStrategy

	// Checker confirms DNS propagation for the dns-01 flow. Defaults to a
	// dnscheck.Checker on the platform resolver.
	Checker PropagationChecker

	// Timeout bounds each status poll and each propagation confirmation
	// (default 30s). The readiness probe does not use it.
	Timeout time.Duration

	// SettleDelay is the wait after all DNS records are confirmed (default 5s).
	SettleDelay time.Duration

	// Logger receives stage-level progress. Defaults to a discard logger.
	Logger *slog.Logger
}

func (cfg *Config) applyDefaults() error {
	if cfg.Account == nil {
		return ErrAccountRequired
	}
	if len(cfg.Domains) == 0 {
		return ErrNoDomains
	}
	for i := range cfg.Domains {
		cfg.Domains[i] = strings.TrimSpace(cfg.Domains[i])
		if cfg.Domains[i] == "" {
			return ErrNoDomains
		}
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.Checker == nil {
		cfg.Checker = dnscheck.New(dnscheck.Config{})
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return nil
}
