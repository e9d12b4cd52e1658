package acme

import (
	"context"
	"fmt"

	legoacme "github.com/go-acme/lego/v4/acme"
	"github.com/go-acme/lego/v4/challenge/dns01"
	"github.com/go-acme/lego/v4/challenge/http01"

	"github.com/certflow/certflow/core/issuance"
)

const (
	challengeTypeDNS01  = "dns-01"
	challengeTypeHTTP01 = "http-01"
)

// challengeResource wraps one challenge offered by an authorization.
type challengeResource struct {
	client *Client
	domain string
	ch     legoacme.Challenge
}

// DNSRecord derives the TXT record an external system must publish to
// satisfy a dns-01 challenge.
func (c *challengeResource) DNSRecord(ctx context.Context) (issuance.DNSRecord, error) {
	if c.ch.Type != challengeTypeDNS01 {
		return issuance.DNSRecord{}, fmt.Errorf("%w: want %s, have %s",
			ErrWrongChallengeType, challengeTypeDNS01, c.ch.Type)
	}
	if err := ctx.Err(); err != nil {
		return issuance.DNSRecord{}, err
	}

	keyAuth, err := c.client.core.GetKeyAuthorization(c.ch.Token)
	if err != nil {
		return issuance.DNSRecord{}, fmt.Errorf("compute key authorization for %s: %w", c.domain, err)
	}

	info := dns01.GetChallengeInfo(c.domain, keyAuth)
	return issuance.DNSRecord{
		FQDN:  info.FQDN,
		Value: info.Value,
	}, nil
}

// HTTPResource derives the well-known resource an external system must serve
// to satisfy an http-01 challenge.
func (c *challengeResource) HTTPResource(ctx context.Context) (issuance.HTTPResource, error) {
	if c.ch.Type != challengeTypeHTTP01 {
		return issuance.HTTPResource{}, fmt.Errorf("%w: want %s, have %s",
			ErrWrongChallengeType, challengeTypeHTTP01, c.ch.Type)
	}
	if err := ctx.Err(); err != nil {
		return issuance.HTTPResource{}, err
	}

	keyAuth, err := c.client.core.GetKeyAuthorization(c.ch.Token)
	if err != nil {
		return issuance.HTTPResource{}, fmt.Errorf("compute key authorization for %s: %w", c.domain, err)
	}

	return issuance.HTTPResource{
		URL:     "http://" + c.domain + http01.ChallengePath(c.ch.Token),
		Content: keyAuth,
	}, nil
}

// Submit asks the authority to validate this challenge.
func (c *challengeResource) Submit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.client.core.Challenges.New(c.ch.URL); err != nil {
		return fmt.Errorf("submit %s challenge for %s: %w", c.ch.Type, c.domain, err)
	}
	return nil
}
