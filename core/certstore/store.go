package certstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	certSuffix   = ".crt"
	keySuffix    = ".key"
	issuerSuffix = "-issuer.crt"
)

// Artifacts are the PEM-encoded outputs of one issuance run for one domain.
type Artifacts struct {
	Domain         string
	CertificatePEM []byte
	PrivateKeyPEM  []byte
	IssuerPEM      []byte // optional; not every authority returns a separate issuer
}

// Store persists certificate artifacts on disk, one file set per domain.
// Writes are atomic (tmp file + rename) and key files are created with 0600.
type Store struct {
	dir string
}

// New creates the storage directory if needed and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create certificate directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the artifact set for a.Domain, replacing any previous set.
func (s *Store) Save(a Artifacts) error {
	base, err := s.baseName(a.Domain)
	if err != nil {
		return err
	}
	if len(a.CertificatePEM) == 0 || len(a.PrivateKeyPEM) == 0 {
		return ErrEmptyArtifacts
	}

	if err := s.writeFile(base+keySuffix, a.PrivateKeyPEM, 0o600); err != nil {
		return fmt.Errorf("write private key for %s: %w", a.Domain, err)
	}
	if err := s.writeFile(base+certSuffix, a.CertificatePEM, 0o644); err != nil {
		return fmt.Errorf("write certificate for %s: %w", a.Domain, err)
	}
	if len(a.IssuerPEM) > 0 {
		if err := s.writeFile(base+issuerSuffix, a.IssuerPEM, 0o644); err != nil {
			return fmt.Errorf("write issuer certificate for %s: %w", a.Domain, err)
		}
	}
	return nil
}

// Load reads the artifact set for a domain. A missing issuer file is not an
// error; a missing certificate or key is ErrNotFound.
func (s *Store) Load(domain string) (*Artifacts, error) {
	base, err := s.baseName(domain)
	if err != nil {
		return nil, err
	}

	cert, err := os.ReadFile(filepath.Join(s.dir, base+certSuffix))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, domain)
		}
		return nil, fmt.Errorf("read certificate for %s: %w", domain, err)
	}

	key, err := os.ReadFile(filepath.Join(s.dir, base+keySuffix))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, domain)
		}
		return nil, fmt.Errorf("read private key for %s: %w", domain, err)
	}

	a := &Artifacts{Domain: domain, CertificatePEM: cert, PrivateKeyPEM: key}
	if issuer, err := os.ReadFile(filepath.Join(s.dir, base+issuerSuffix)); err == nil {
		a.IssuerPEM = issuer
	}
	return a, nil
}

// Exists reports whether a certificate is stored for the domain.
func (s *Store) Exists(domain string) bool {
	base, err := s.baseName(domain)
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(s.dir, base+certSuffix))
	return err == nil
}

// Delete removes the full artifact set for a domain. Deleting a domain that
// was never stored is a no-op.
func (s *Store) Delete(domain string) error {
	base, err := s.baseName(domain)
	if err != nil {
		return err
	}

	for _, suffix := range []string{certSuffix, keySuffix, issuerSuffix} {
		if err := os.Remove(filepath.Join(s.dir, base+suffix)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete artifacts for %s: %w", domain, err)
		}
	}
	return nil
}

// List returns the base names of all stored certificate sets.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}

	var domains []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, certSuffix) || strings.HasSuffix(name, issuerSuffix) {
			continue
		}
		domains = append(domains, strings.TrimSuffix(name, certSuffix))
	}
	return domains, nil
}

// Dir returns the storage directory path.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) writeFile(name string, data []byte, perm os.FileMode) error {
	path := filepath.Join(s.dir, name)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Best effort cleanup
		return err
	}
	return nil
}

// baseName maps a domain to a safe file name segment.
func (s *Store) baseName(domain string) (string, error) {
	domain = strings.TrimSpace(strings.ToLower(domain))
	if domain == "" {
		return "", ErrEmptyDomain
	}

	var b strings.Builder
	b.Grow(len(domain))
	for _, r := range domain {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == '*':
			b.WriteString("wildcard")
		default:
			b.WriteRune('_')
		}
	}

	base := strings.Trim(b.String(), "._-")
	if base == "" {
		return "", ErrEmptyDomain
	}
	return base, nil
}
