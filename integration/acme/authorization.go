package acme

import (
	legoacme "github.com/go-acme/lego/v4/acme"

	"github.com/certflow/certflow/core/issuance"
)

// authorization wraps one fetched authorization resource.
type authorization struct {
	client *Client
	az     legoacme.Authorization
}

// Identifier returns the domain this authorization covers, with the wildcard
// label restored for wildcard orders.
func (a *authorization) Identifier() string {
	domain := a.az.Identifier.Value
	if a.az.Wildcard {
		return "*." + domain
	}
	return domain
}

// DNS01 returns the dns-01 challenge, if the authority offered one.
func (a *authorization) DNS01() (issuance.Challenge, bool) {
	return a.find(challengeTypeDNS01)
}

// HTTP01 returns the http-01 challenge, if the authority offered one.
func (a *authorization) HTTP01() (issuance.Challenge, bool) {
	return a.find(challengeTypeHTTP01)
}

func (a *authorization) find(challengeType string) (issuance.Challenge, bool) {
	for _, ch := range a.az.Challenges {
		if ch.Type == challengeType {
			return &challengeResource{
				client: a.client,
				domain: a.az.Identifier.Value,
				ch:     ch,
			}, true
		}
	}
	return nil, false
}
