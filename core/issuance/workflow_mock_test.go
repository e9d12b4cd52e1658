package issuance_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/certflow/certflow/core/issuance"
	"github.com/certflow/certflow/core/keys"
)

// callLog records mock invocations with timestamps so tests can assert
// ordering across the workflow's stages.
type callLog struct {
	mu     sync.Mutex
	events []logEvent
}

type logEvent struct {
	name string
	at   time.Time
}

func (l *callLog) record(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, logEvent{name: name, at: time.Now()})
}

func (l *callLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, len(l.events))
	for i, e := range l.events {
		names[i] = e.name
	}
	return names
}

func (l *callLog) count(name string) int {
	n := 0
	for _, got := range l.names() {
		if got == name {
			n++
		}
	}
	return n
}

func (l *callLog) countPrefix(prefix string) int {
	n := 0
	for _, got := range l.names() {
		if len(got) >= len(prefix) && got[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// lastTime returns the timestamp of the last event with the given prefix.
func (l *callLog) lastTime(prefix string) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var (
		at    time.Time
		found bool
	)
	for _, e := range l.events {
		if len(e.name) >= len(prefix) && e.name[:len(prefix)] == prefix {
			if e.at.After(at) {
				at = e.at
			}
			found = true
		}
	}
	return at, found
}

// firstTime returns the timestamp of the earliest event with the given prefix.
func (l *callLog) firstTime(prefix string) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var (
		at    time.Time
		found bool
	)
	for _, e := range l.events {
		if len(e.name) >= len(prefix) && e.name[:len(prefix)] == prefix {
			if !found || e.at.Before(at) {
				at = e.at
			}
			found = true
		}
	}
	return at, found
}

type mockAccount struct {
	log   *callLog
	order issuance.Order
	err   error
}

func (a *mockAccount) NewOrder(_ context.Context, domains []string) (issuance.Order, error) {
	a.log.record(fmt.Sprintf("neworder:%d", len(domains)))
	if a.err != nil {
		return nil, a.err
	}
	return a.order, nil
}

type mockOrder struct {
	log *callLog

	mu          sync.Mutex
	pollResults []error // consumed in call order; nil once exhausted

	authzs   []issuance.Authorization
	authzErr error
	keyPair  *keys.KeyPair
	finalErr error
	cert     string
	certErr  error
}

func (o *mockOrder) PollStatus(_ context.Context, until issuance.Status, _ time.Duration) error {
	o.log.record("poll:" + string(until))

	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.pollResults) == 0 {
		return nil
	}
	err := o.pollResults[0]
	o.pollResults = o.pollResults[1:]
	return err
}

func (o *mockOrder) Authorizations(context.Context) ([]issuance.Authorization, error) {
	o.log.record("authorizations")
	return o.authzs, o.authzErr
}

func (o *mockOrder) Finalize(context.Context) (*keys.KeyPair, error) {
	o.log.record("finalize")
	return o.keyPair, o.finalErr
}

func (o *mockOrder) Certificate(context.Context) (string, error) {
	o.log.record("certificate")
	return o.cert, o.certErr
}

type mockAuthz struct {
	id   string
	dns  issuance.Challenge
	http issuance.Challenge
}

func (a *mockAuthz) Identifier() string { return a.id }

func (a *mockAuthz) DNS01() (issuance.Challenge, bool) {
	return a.dns, a.dns != nil
}

func (a *mockAuthz) HTTP01() (issuance.Challenge, bool) {
	return a.http, a.http != nil
}

type mockChallenge struct {
	log *callLog
	id  string

	dnsRecord issuance.DNSRecord
	httpRes   issuance.HTTPResource
	recordErr error
	submitErr error
}

func (c *mockChallenge) DNSRecord(context.Context) (issuance.DNSRecord, error) {
	c.log.record("record:" + c.id)
	return c.dnsRecord, c.recordErr
}

func (c *mockChallenge) HTTPResource(context.Context) (issuance.HTTPResource, error) {
	c.log.record("resource:" + c.id)
	return c.httpRes, c.recordErr
}

func (c *mockChallenge) Submit(context.Context) error {
	c.log.record("submit:" + c.id)
	return c.submitErr
}

type mockChecker struct {
	log     *callLog
	waitErr error
	delay   time.Duration
}

func (c *mockChecker) AuthoritativeServers(_ context.Context, domain string) ([]string, error) {
	c.log.record("ns:" + domain)
	return []string{"127.0.0.1:53"}, nil
}

func (c *mockChecker) WaitForTXT(_ context.Context, fqdn, _ string, _ []string, _ time.Duration) error {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.log.record("confirm:" + fqdn)
	return c.waitErr
}
