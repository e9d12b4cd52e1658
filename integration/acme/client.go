package acme

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-acme/lego/v4/acme/api"
	"github.com/go-acme/lego/v4/certcrypto"

	"github.com/certflow/certflow/core/issuance"
	"github.com/certflow/certflow/core/keys"
)

// Client talks to an ACME v2 authority on behalf of a registered account.
// It implements issuance.Account and is safe for concurrent use.
type Client struct {
	core         *api.Core
	certKeyAlg   keys.Algorithm
	pollInterval time.Duration
}

// New builds a Client from cfg. The authority's directory is fetched during
// construction, so a misconfigured URL fails fast.
func New(cfg Config) (*Client, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	accountKey, err := certcrypto.ParsePEMPrivateKey([]byte(cfg.AccountKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse account key: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	core, err := api.New(httpClient, cfg.UserAgent, cfg.DirectoryURL, cfg.AccountURL, accountKey)
	if err != nil {
		return nil, fmt.Errorf("connect to directory %s: %w", cfg.DirectoryURL, err)
	}

	return &Client{
		core:         core,
		certKeyAlg:   keys.Algorithm(cfg.CertificateKeyAlgorithm),
		pollInterval: cfg.PollInterval,
	}, nil
}

// NewOrder creates an order covering the given domains.
func (c *Client) NewOrder(ctx context.Context, domains []string) (issuance.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	upstream, err := c.core.Orders.New(domains)
	if err != nil {
		return nil, fmt.Errorf("create order for %s: %w", strings.Join(domains, ", "), err)
	}

	o := &order{
		client:  c,
		url:     upstream.Location,
		domains: append([]string(nil), domains...),
	}
	o.apply(upstream.Status, upstream.Authorizations, upstream.Finalize, upstream.Certificate)
	return o, nil
}
