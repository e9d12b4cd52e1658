package dnscheck

import "errors"

var (
	// ErrZoneNotFound is returned when no SOA record can be located while
	// walking up the domain's labels.
	ErrZoneNotFound = errors.New("zone apex not found")

	// ErrNoNameservers is returned when a zone has no NS records.
	ErrNoNameservers = errors.New("no authoritative nameservers found")

	// ErrPropagationTimeout is returned when the expected TXT record did not
	// appear on every authoritative nameserver within the budget.
	ErrPropagationTimeout = errors.New("dns propagation timed out")
)
