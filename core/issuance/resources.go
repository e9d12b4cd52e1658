package issuance

import (
	"context"
	"time"

	"github.com/certflow/certflow/core/keys"
)

// Status is the lifecycle state of a remote order. Valid and Invalid are
// terminal.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

// Account creates orders at the certificate authority on behalf of a
// registered account.
type Account interface {
	// NewOrder creates an order covering the given domains.
	NewOrder(ctx context.Context, domains []string) (Order, error)
}

// Order is the remote resource tracking one certificate request. All state
// transitions happen at the authority; the workflow only issues commands and
// observes status by polling.
type Order interface {
	// PollStatus blocks until the order reaches the given status or the
	// timeout elapses. On budget exhaustion the returned error wraps
	// ErrPollTimeout; any other error means the poll itself failed.
	PollStatus(ctx context.Context, until Status, timeout time.Duration) error

	// Authorizations returns one authorization per order identifier. The
	// order of the slice does not have to match the configured domain list.
	Authorizations(ctx context.Context) ([]Authorization, error)

	// Finalize generates a fresh certificate key pair, submits the signing
	// request, and returns the key pair for the caller to keep.
	Finalize(ctx context.Context) (*keys.KeyPair, error)

	// Certificate fetches the issued certificate chain as PEM text. Only
	// meaningful once the order is valid.
	Certificate(ctx context.Context) (string, error)
}

// Authorization is the proof-of-control requirement for a single domain.
type Authorization interface {
	// Identifier returns the domain this authorization covers.
	Identifier() string

	// DNS01 returns the dns-01 challenge, if the authority offered one.
	DNS01() (Challenge, bool)

	// HTTP01 returns the http-01 challenge, if the authority offered one.
	HTTP01() (Challenge, bool)
}

// Challenge is a single proof-of-control mechanism. Submitting it asks the
// authority to validate; the order status must still be polled afterwards.
type Challenge interface {
	// DNSRecord returns the TXT record an external system must publish to
	// satisfy a dns-01 challenge.
	DNSRecord(ctx context.Context) (DNSRecord, error)

	// HTTPResource returns the resource an external system must serve to
	// satisfy an http-01 challenge.
	HTTPResource(ctx context.Context) (HTTPResource, error)

	// Submit requests validation of this challenge.
	Submit(ctx context.Context) error
}

// DNSRecord describes the TXT record expected by a dns-01 challenge.
type DNSRecord struct {
	FQDN  string
	Value string
}

// HTTPResource describes the HTTP resource expected by an http-01 challenge.
type HTTPResource struct {
	URL     string
	Content string
}

// PropagationChecker confirms that published DNS records are visible on the
// nameservers authoritative for a domain before a proof is submitted.
// *dnscheck.Checker satisfies this interface.
type PropagationChecker interface {
	AuthoritativeServers(ctx context.Context, domain string) ([]string, error)
	WaitForTXT(ctx context.Context, fqdn, value string, nameservers []string, timeout time.Duration) error
}
