// Package dnscheck confirms DNS propagation of challenge records before a
// proof of domain control is submitted.
//
// A Checker discovers the nameservers authoritative for a domain (SOA zone
// walk, then NS lookup) and polls them for an expected TXT value. Polling is
// strict: every authoritative server must return the exact value before the
// wait resolves, and a missing record or NXDOMAIN simply means "not yet".
//
//	checker := dnscheck.New(dnscheck.Config{})
//
//	servers, err := checker.AuthoritativeServers(ctx, "_acme-challenge.example.com")
//	if err != nil {
//		return err
//	}
//
//	err = checker.WaitForTXT(ctx, "_acme-challenge.example.com", expected, servers, 30*time.Second)
//	if errors.Is(err, dnscheck.ErrPropagationTimeout) {
//		// record never appeared within the budget
//	}
//
// Seed resolvers default to the system configuration (/etc/resolv.conf) and
// can be overridden through Config.Nameservers, which is also how tests point
// the checker at a local mock server.
package dnscheck
