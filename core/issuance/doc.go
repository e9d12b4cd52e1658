// Package issuance drives an ACME-style certificate order through its
// lifecycle: creation, challenge satisfaction, finalization, and retrieval.
//
// The workflow talks to the certificate authority exclusively through the
// Account/Order/Authorization/Challenge interfaces, so any RFC 8555 client
// can back it (see integration/acme for the lego-backed implementation) and
// tests can run against in-memory fakes.
//
// # Flow
//
// RequestCertificate makes one pass, with no internal retries:
//
//  1. Create the order.
//  2. Probe readiness with a minimal budget. A pre-authorized order skips the
//     challenge phase; only a poll timeout means "not ready", any other probe
//     failure aborts.
//  3. Satisfy challenges per the configured ChallengeStrategy: fetch every
//     expected record or resource in parallel, hand the complete batch to the
//     strategy callback exactly once, for dns-01 confirm propagation on the
//     authoritative nameservers and wait out the settle delay, then submit
//     all challenges in parallel. Fan-outs are all-or-nothing.
//  4. Poll for ready, finalize (a fresh certificate key pair is generated),
//     poll for valid, fetch the certificate.
//
// # Basic Usage
//
//	result, err := issuance.RequestCertificate(ctx, issuance.Config{
//		Account: account,
//		Domains: []string{"example.com", "www.example.com"},
//		Strategy: issuance.DNSStrategy{
//			UpdateRecords: func(ctx context.Context, records []issuance.DNSRecord) error {
//				return zone.Publish(ctx, records) // one bulk zone transaction
//			},
//		},
//	})
//	if err != nil {
//		return err
//	}
//	_ = result.CertificatePEM
//	_ = result.KeyPair
//
// # Errors
//
//   - ErrNoChallengeStrategy: challenges required but no strategy configured
//   - ErrChallengeUnavailable: an authorization lacks the needed challenge type
//   - ErrPollTimeout: sentinel wrapped by Order.PollStatus on budget exhaustion
//
// Timeouts outside the readiness probe are fatal; the first failing branch of
// a fan-out determines the reported error.
package issuance
