// Package logger provides standardized slog attribute constructors for
// consistent structured logging across the project.
//
// All helpers are nil-safe: passing a nil error or an empty value yields an
// empty Attr that slog silently drops, so call sites never need guards:
//
//	log.Info("certificate issued",
//		logger.Domains(domains),
//		logger.Elapsed(start),
//		logger.Error(err), // no-op when err is nil
//	)
package logger
