package dnscheck

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
)

const resolvConfPath = "/etc/resolv.conf"

// defaultNameservers are used when the system resolver configuration cannot
// be read.
var defaultNameservers = []string{"8.8.8.8:53", "8.8.4.4:53"}

// Config holds the checker configuration. The zero value is usable: seed
// nameservers come from the system resolver configuration and timings use the
// package defaults.
type Config struct {
	// Nameservers are the recursive resolvers used to discover zone apexes
	// and authoritative servers, as host:port addresses. Setting this field
	// overrides the platform resolver.
	Nameservers []string

	// QueryTimeout bounds a single DNS exchange (default 10s).
	QueryTimeout time.Duration

	// PollInterval is the pause between propagation probes (default 2s).
	PollInterval time.Duration
}

// Checker resolves authoritative nameservers and polls them for expected TXT
// records. All methods are safe for concurrent use.
type Checker struct {
	nameservers  []string
	queryTimeout time.Duration
	pollInterval time.Duration

	mu         sync.RWMutex
	fqdnToZone map[string]string
}

// New creates a checker from cfg, applying defaults for unset fields.
func New(cfg Config) *Checker {
	c := &Checker{
		nameservers:  cfg.Nameservers,
		queryTimeout: cfg.QueryTimeout,
		pollInterval: cfg.PollInterval,
		fqdnToZone:   make(map[string]string),
	}
	if len(c.nameservers) == 0 {
		c.nameservers = systemNameservers()
	}
	if c.queryTimeout <= 0 {
		c.queryTimeout = 10 * time.Second
	}
	if c.pollInterval <= 0 {
		c.pollInterval = 2 * time.Second
	}
	return c
}

// systemNameservers reads the platform resolver configuration, falling back
// to well-known public resolvers.
func systemNameservers() []string {
	conf, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil || len(conf.Servers) == 0 {
		return defaultNameservers
	}

	servers := make([]string, 0, len(conf.Servers))
	for _, server := range conf.Servers {
		if _, _, err := net.SplitHostPort(server); err != nil {
			server = net.JoinHostPort(server, "53")
		}
		servers = append(servers, server)
	}
	return servers
}

// AuthoritativeServers discovers the nameservers authoritative for domain by
// walking up the labels until a zone apex answers with an SOA record, then
// querying that apex for NS records. Returned addresses carry a port.
func (c *Checker) AuthoritativeServers(ctx context.Context, domain string) ([]string, error) {
	fqdn := dns.Fqdn(domain)

	zone, err := c.findZone(ctx, fqdn)
	if err != nil {
		return nil, err
	}

	msg, err := c.query(ctx, zone, dns.TypeNS, c.nameservers, true)
	if err != nil {
		return nil, fmt.Errorf("query NS records for %s: %w", zone, err)
	}

	var servers []string
	for _, rr := range msg.Answer {
		if ns, ok := rr.(*dns.NS); ok {
			servers = append(servers, net.JoinHostPort(strings.ToLower(ns.Ns), "53"))
		}
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("%w: zone %s", ErrNoNameservers, zone)
	}
	return servers, nil
}

// WaitForTXT polls the given nameservers until every one of them returns a
// TXT record at fqdn whose joined value equals value, or the timeout elapses.
// NXDOMAIN and missing records count as "not propagated yet"; any other
// response code is an error.
func (c *Checker) WaitForTXT(ctx context.Context, fqdn, value string, nameservers []string, timeout time.Duration) error {
	fqdn = dns.Fqdn(fqdn)

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	var lastErr error
	for {
		ok, err := c.checkTXT(ctx, fqdn, value, nameservers)
		if ok {
			return nil
		}
		if err != nil {
			// Remembered for the timeout report; transient resolver failures
			// within the budget are retried like a missing record.
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			if lastErr != nil {
				return fmt.Errorf("%w: %s on %d nameservers after %s (last error: %v)",
					ErrPropagationTimeout, fqdn, len(nameservers), timeout, lastErr)
			}
			return fmt.Errorf("%w: %s on %d nameservers after %s",
				ErrPropagationTimeout, fqdn, len(nameservers), timeout)
		case <-time.After(c.pollInterval):
		}
	}
}

// checkTXT queries each nameserver once and reports whether all of them
// already serve the expected record.
func (c *Checker) checkTXT(ctx context.Context, fqdn, value string, nameservers []string) (bool, error) {
	for _, ns := range nameservers {
		msg, err := c.query(ctx, fqdn, dns.TypeTXT, []string{ns}, true)
		if err != nil {
			return false, err
		}

		// NXDOMAIN just means the record has not propagated to this server.
		if msg.Rcode != dns.RcodeSuccess && msg.Rcode != dns.RcodeNameError {
			return false, fmt.Errorf("nameserver %s returned %s for %s", ns, dns.RcodeToString[msg.Rcode], fqdn)
		}

		found := false
		for _, rr := range msg.Answer {
			if txt, ok := rr.(*dns.TXT); ok && strings.Join(txt.Txt, "") == value {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

// findZone walks up the fqdn labels until a nameserver returns an SOA record,
// identifying the zone apex. Results are cached per fqdn.
func (c *Checker) findZone(ctx context.Context, fqdn string) (string, error) {
	c.mu.RLock()
	zone, ok := c.fqdnToZone[fqdn]
	c.mu.RUnlock()
	if ok {
		return zone, nil
	}

	for _, index := range dns.Split(fqdn) {
		candidate := fqdn[index:]

		msg, err := c.query(ctx, candidate, dns.TypeSOA, c.nameservers, true)
		if err != nil {
			return "", fmt.Errorf("query SOA for %s: %w", candidate, err)
		}
		if msg.Rcode != dns.RcodeSuccess && msg.Rcode != dns.RcodeNameError {
			continue
		}

		for _, rr := range msg.Answer {
			if soa, ok := rr.(*dns.SOA); ok && strings.EqualFold(soa.Hdr.Name, candidate) {
				c.mu.Lock()
				c.fqdnToZone[fqdn] = candidate
				c.mu.Unlock()
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrZoneNotFound, fqdn)
}

// query exchanges a question with the given nameservers, trying each in turn
// until one answers. Truncated UDP responses are retried over TCP.
func (c *Checker) query(ctx context.Context, fqdn string, rtype uint16, nameservers []string, recursive bool) (*dns.Msg, error) {
	m := new(dns.Msg)
	m.SetQuestion(fqdn, rtype)
	m.SetEdns0(4096, false)
	m.RecursionDesired = recursive

	var lastErr error
	for _, ns := range nameservers {
		udp := &dns.Client{Net: "udp", Timeout: c.queryTimeout}
		in, _, err := udp.ExchangeContext(ctx, m, ns)

		if in != nil && in.Truncated {
			tcp := &dns.Client{Net: "tcp", Timeout: c.queryTimeout}
			in, _, err = tcp.ExchangeContext(ctx, m, ns)
		}

		if err == nil {
			return in, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}

	return nil, fmt.Errorf("all nameservers failed: %w", lastErr)
}
