package certstore

import "errors"

var (
	// ErrNotFound is returned when no artifacts exist for a domain.
	ErrNotFound = errors.New("certificate artifacts not found")

	// ErrEmptyDomain is returned when a domain name is blank.
	ErrEmptyDomain = errors.New("domain name cannot be empty")

	// ErrEmptyArtifacts is returned when a save is attempted without
	// certificate or key material.
	ErrEmptyArtifacts = errors.New("certificate and private key are required")
)
