package issuance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/certflow/certflow/core/keys"
	"github.com/certflow/certflow/pkg/async"
	"github.com/certflow/certflow/pkg/logger"
)

// probeTimeout is the budget of the readiness probe: enough for one status
// round trip, nowhere near a real propagation wait.
const probeTimeout = time.Second

// Result is the outcome of a successful issuance run.
type Result struct {
	// CertificatePEM is the issued certificate chain as returned by the
	// authority.
	CertificatePEM string

	// KeyPair is the certificate's fresh key pair, generated during
	// finalization.
	KeyPair *keys.KeyPair

	// Order is the remote order resource, retained for inspection.
	Order Order
}

// RequestCertificate drives one order through its full lifecycle: creation,
// challenge satisfaction when needed, finalization, and certificate
// retrieval. It makes a single pass with no retries; on failure the remote
// order persists and the caller may re-invoke the whole workflow.
func RequestCertificate(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	log := cfg.Logger.With(logger.RequestID(uuid.NewString()))
	log.InfoContext(ctx, "requesting certificate", logger.Domains(cfg.Domains))

	order, err := cfg.Account.NewOrder(ctx, cfg.Domains)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// A pre-authorized order skips the challenge phase entirely.
	ready, err := probeReadiness(ctx, order)
	if err != nil {
		return nil, err
	}

	if ready {
		log.DebugContext(ctx, "order pre-authorized", logger.Stage("probe"))
	} else {
		if err := satisfyChallenges(ctx, &cfg, order, log); err != nil {
			return nil, err
		}
		if err := order.PollStatus(ctx, StatusReady, cfg.Timeout); err != nil {
			return nil, fmt.Errorf("await order readiness: %w", err)
		}
	}

	certKeyPair, err := order.Finalize(ctx)
	if err != nil {
		return nil, fmt.Errorf("finalize order: %w", err)
	}
	log.DebugContext(ctx, "order finalized", logger.Stage("finalize"))

	if err := order.PollStatus(ctx, StatusValid, cfg.Timeout); err != nil {
		return nil, fmt.Errorf("await order validity: %w", err)
	}

	certPEM, err := order.Certificate(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve certificate: %w", err)
	}

	log.InfoContext(ctx, "certificate issued", logger.Domains(cfg.Domains), logger.Elapsed(start))
	return &Result{
		CertificatePEM: certPEM,
		KeyPair:        certKeyPair,
		Order:          order,
	}, nil
}

// probeReadiness polls the order once with a minimal budget and maps the
// outcome to an explicit two-state result. Only a poll timeout counts as
// "not ready yet"; every other failure propagates.
func probeReadiness(ctx context.Context, order Order) (bool, error) {
	err := order.PollStatus(ctx, StatusReady, probeTimeout)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrPollTimeout):
		return false, nil
	default:
		return false, fmt.Errorf("probe order readiness: %w", err)
	}
}

func satisfyChallenges(ctx context.Context, cfg *Config, order Order, log *slog.Logger) error {
	switch strategy := cfg.Strategy.(type) {
	case DNSStrategy:
		return runDNSFlow(ctx, cfg, order, strategy, log)
	case HTTPStrategy:
		return runHTTPFlow(ctx, order, strategy, log)
	case nil:
		return ErrNoChallengeStrategy
	default:
		return fmt.Errorf("unsupported challenge strategy %T", cfg.Strategy)
	}
}

// runDNSFlow publishes all expected TXT records in one batch, waits until
// every authoritative nameserver serves them, lets resolvers settle, and
// only then submits the challenges.
func runDNSFlow(ctx context.Context, cfg *Config, order Order, strategy DNSStrategy, log *slog.Logger) error {
	challenges, err := collectChallenges(ctx, order, func(authz Authorization) (Challenge, bool) {
		return authz.DNS01()
	}, "dns-01")
	if err != nil {
		return err
	}

	records, err := async.Map(ctx, challenges, func(ctx context.Context, ch Challenge) (DNSRecord, error) {
		return ch.DNSRecord(ctx)
	})
	if err != nil {
		return fmt.Errorf("fetch expected dns records: %w", err)
	}

	if strategy.UpdateRecords == nil {
		return ErrNoChallengeStrategy
	}
	if err := strategy.UpdateRecords(ctx, records); err != nil {
		return fmt.Errorf("update dns records: %w", err)
	}
	log.DebugContext(ctx, "dns records published", logger.Stage("dns-01"))

	err = async.Each(ctx, records, func(ctx context.Context, rec DNSRecord) error {
		servers, err := cfg.Checker.AuthoritativeServers(ctx, rec.FQDN)
		if err != nil {
			return fmt.Errorf("resolve authoritative nameservers for %s: %w", rec.FQDN, err)
		}
		if err := cfg.Checker.WaitForTXT(ctx, rec.FQDN, rec.Value, servers, cfg.Timeout); err != nil {
			return fmt.Errorf("confirm propagation of %s: %w", rec.FQDN, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.DebugContext(ctx, "dns propagation confirmed", logger.Stage("dns-01"), logger.Duration(cfg.SettleDelay))

	// Settle delay strictly follows confirmation of all records and strictly
	// precedes submission.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(cfg.SettleDelay):
	}

	return submitChallenges(ctx, challenges)
}

// runHTTPFlow is the dns-01 flow without the propagation and settle steps.
func runHTTPFlow(ctx context.Context, order Order, strategy HTTPStrategy, log *slog.Logger) error {
	challenges, err := collectChallenges(ctx, order, func(authz Authorization) (Challenge, bool) {
		return authz.HTTP01()
	}, "http-01")
	if err != nil {
		return err
	}

	resources, err := async.Map(ctx, challenges, func(ctx context.Context, ch Challenge) (HTTPResource, error) {
		return ch.HTTPResource(ctx)
	})
	if err != nil {
		return fmt.Errorf("fetch expected http resources: %w", err)
	}

	if strategy.UpdateResources == nil {
		return ErrNoChallengeStrategy
	}
	if err := strategy.UpdateResources(ctx, resources); err != nil {
		return fmt.Errorf("update http resources: %w", err)
	}
	log.DebugContext(ctx, "http resources published", logger.Stage("http-01"))

	return submitChallenges(ctx, challenges)
}

// collectChallenges looks the wanted challenge type up on every authorization
// before any network fan-out starts, so a missing challenge fails fast and
// names the authorization it belongs to.
func collectChallenges(ctx context.Context, order Order, find func(Authorization) (Challenge, bool), challengeType string) ([]Challenge, error) {
	authzs, err := order.Authorizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch authorizations: %w", err)
	}

	challenges := make([]Challenge, len(authzs))
	for i, authz := range authzs {
		ch, ok := find(authz)
		if !ok {
			return nil, fmt.Errorf("%w: no %s challenge for %q", ErrChallengeUnavailable, challengeType, authz.Identifier())
		}
		challenges[i] = ch
	}
	return challenges, nil
}

func submitChallenges(ctx context.Context, challenges []Challenge) error {
	err := async.Each(ctx, challenges, func(ctx context.Context, ch Challenge) error {
		return ch.Submit(ctx)
	})
	if err != nil {
		return fmt.Errorf("submit challenges: %w", err)
	}
	return nil
}
