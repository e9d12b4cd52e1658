package keys

import (
	"crypto"
	"crypto/elliptic"
)

// Algorithm selects the cryptographic parameters of a key pair.
type Algorithm string

const (
	// EC is ECDSA over the NIST P-256 curve with SHA-256.
	EC Algorithm = "ec"

	// RSA is RSASSA-PKCS1-v1_5 with a 2048-bit modulus and SHA-256.
	RSA Algorithm = "rsa"

	// RSA4096 is RSASSA-PKCS1-v1_5 with a 4096-bit modulus and SHA-256.
	RSA4096 Algorithm = "rsa-4096"
)

// parameters is the fixed parameter set behind an Algorithm. The mapping in
// params is the single source of truth for every component that touches keys.
type parameters struct {
	curve    elliptic.Curve // EC only
	bits     int            // RSA modulus length
	exponent int            // RSA public exponent
	hash     crypto.Hash
}

func (a Algorithm) params() (parameters, bool) {
	switch a {
	case EC:
		return parameters{curve: elliptic.P256(), hash: crypto.SHA256}, true
	case RSA:
		return parameters{bits: 2048, exponent: 65537, hash: crypto.SHA256}, true
	case RSA4096:
		return parameters{bits: 4096, exponent: 65537, hash: crypto.SHA256}, true
	default:
		return parameters{}, false
	}
}

// Valid reports whether a is a supported algorithm selector.
func (a Algorithm) Valid() bool {
	_, ok := a.params()
	return ok
}
