package acme

import (
	"context"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"sync"
	"time"

	"github.com/certflow/certflow/core/issuance"
	"github.com/certflow/certflow/core/keys"
	"github.com/certflow/certflow/pkg/async"
)

// order is a handle on the remote order resource. The authority owns all
// state; accessors work off the most recently fetched snapshot.
type order struct {
	client  *Client
	url     string
	domains []string

	mu          sync.RWMutex
	status      issuance.Status
	authzURLs   []string
	finalizeURL string
	certURL     string
}

func (o *order) apply(status string, authzURLs []string, finalizeURL, certURL string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.status = issuance.Status(status)
	if len(authzURLs) > 0 {
		o.authzURLs = authzURLs
	}
	if finalizeURL != "" {
		o.finalizeURL = finalizeURL
	}
	if certURL != "" {
		o.certURL = certURL
	}
}

func (o *order) refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	upstream, err := o.client.core.Orders.Get(o.url)
	if err != nil {
		return fmt.Errorf("fetch order %s: %w", o.url, err)
	}
	o.apply(upstream.Status, upstream.Authorizations, upstream.Finalize, upstream.Certificate)
	return nil
}

// PollStatus refetches the order until it reaches the wanted status. An order
// that turns invalid while waiting for anything else fails immediately with
// ErrOrderFailed; budget exhaustion wraps issuance.ErrPollTimeout.
func (o *order) PollStatus(ctx context.Context, until issuance.Status, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		if err := o.refresh(ctx); err != nil {
			return err
		}

		o.mu.RLock()
		status := o.status
		o.mu.RUnlock()

		if status == until {
			return nil
		}
		if status == issuance.StatusInvalid {
			return fmt.Errorf("%w: order %s", ErrOrderFailed, o.url)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w: order %s did not reach %q within %s",
				issuance.ErrPollTimeout, o.url, until, timeout)
		case <-time.After(o.client.pollInterval):
		}
	}
}

// Authorizations fetches every authorization of the order in parallel.
func (o *order) Authorizations(ctx context.Context) ([]issuance.Authorization, error) {
	o.mu.RLock()
	urls := append([]string(nil), o.authzURLs...)
	o.mu.RUnlock()

	return async.Map(ctx, urls, func(ctx context.Context, url string) (issuance.Authorization, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		az, err := o.client.core.Authorizations.Get(url)
		if err != nil {
			return nil, fmt.Errorf("fetch authorization %s: %w", url, err)
		}
		return &authorization{client: o.client, az: az}, nil
	})
}

// Finalize generates a fresh certificate key pair, signs a CSR covering the
// order's domains with it, and submits the CSR to the authority.
func (o *order) Finalize(ctx context.Context) (*keys.KeyPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kp, err := keys.Generate(o.client.certKeyAlg)
	if err != nil {
		return nil, err
	}

	template := &x509.CertificateRequest{
		Subject:  pkix.Name{CommonName: o.domains[0]},
		DNSNames: o.domains,
	}
	csr, err := x509.CreateCertificateRequest(rand.Reader, template, kp.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("build signing request: %w", err)
	}

	o.mu.RLock()
	finalizeURL := o.finalizeURL
	o.mu.RUnlock()

	upstream, err := o.client.core.Orders.UpdateForCSR(finalizeURL, csr)
	if err != nil {
		return nil, fmt.Errorf("finalize order %s: %w", o.url, err)
	}
	o.apply(upstream.Status, upstream.Authorizations, upstream.Finalize, upstream.Certificate)
	return kp, nil
}

// Certificate downloads the issued chain as bundled PEM text.
func (o *order) Certificate(ctx context.Context) (string, error) {
	o.mu.RLock()
	certURL := o.certURL
	o.mu.RUnlock()

	if certURL == "" {
		if err := o.refresh(ctx); err != nil {
			return "", err
		}
		o.mu.RLock()
		certURL = o.certURL
		o.mu.RUnlock()
	}
	if certURL == "" {
		return "", fmt.Errorf("%w: order %s", ErrCertificateNotReady, o.url)
	}

	cert, _, err := o.client.core.Certificates.Get(certURL, true)
	if err != nil {
		return "", fmt.Errorf("download certificate %s: %w", certURL, err)
	}
	return string(cert), nil
}
