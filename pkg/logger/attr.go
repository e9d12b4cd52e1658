package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// This allows calls like log.Info("msg", logger.Error(err)) without explicit
// nil checks, following the principle of making zero values useful.

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors, enabling safe usage without nil checks.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// Stage names the workflow stage a log entry belongs to.
func Stage(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("stage", name)
}

// Domain creates an attribute for a single domain name.
func Domain(domain string) slog.Attr {
	if domain == "" {
		return slog.Attr{}
	}
	return slog.String("domain", domain)
}

// Domains creates an attribute for the full domain list of an order.
func Domains(domains []string) slog.Attr {
	if len(domains) == 0 {
		return slog.Attr{}
	}
	return slog.Any("domains", domains)
}

// RequestID tags all entries of one workflow invocation.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}
