package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// ImportKeyPairFromPEM parses the first PEM block in pemText as a PKCS#8
// private key and returns the full key pair. An empty algorithm defaults to
// EC. The key material must match the algorithm's registered parameters
// exactly (curve, modulus length), otherwise ErrKeyMismatch is returned.
//
// The public key is derived from the private key by marshalling its public
// parameters to PKIX form and reparsing them. The round trip drops the
// private component and verifies that the export carried complete public
// parameters, which holds for both supported families (ECDSA, RSA).
func ImportKeyPairFromPEM(pemText string, alg Algorithm) (*KeyPair, error) {
	if alg == "" {
		alg = EC
	}
	p, ok := alg.params()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}

	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrMalformedPEM)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse PKCS#8 private key: %w", err)
	}

	switch key := parsed.(type) {
	case *ecdsa.PrivateKey:
		if p.curve == nil {
			return nil, fmt.Errorf("%w: got an EC key, want %s", ErrKeyMismatch, alg)
		}
		if key.Curve != p.curve {
			return nil, fmt.Errorf("%w: curve %s, want %s", ErrKeyMismatch, key.Curve.Params().Name, p.curve.Params().Name)
		}
		pub, err := derivePublicKey(key)
		if err != nil {
			return nil, err
		}
		return &KeyPair{Algorithm: alg, PrivateKey: key, PublicKey: pub}, nil

	case *rsa.PrivateKey:
		if p.bits == 0 {
			return nil, fmt.Errorf("%w: got an RSA key, want %s", ErrKeyMismatch, alg)
		}
		if got := key.N.BitLen(); got != p.bits {
			return nil, fmt.Errorf("%w: %d-bit modulus, want %d", ErrKeyMismatch, got, p.bits)
		}
		pub, err := derivePublicKey(key)
		if err != nil {
			return nil, err
		}
		return &KeyPair{Algorithm: alg, PrivateKey: key, PublicKey: pub}, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, parsed)
	}
}

// derivePublicKey round-trips the signer's public parameters through PKIX
// encoding, producing a standalone verify-only key.
func derivePublicKey(key crypto.Signer) (crypto.PublicKey, error) {
	der, err := x509.MarshalPKIXPublicKey(key.Public())
	if err != nil {
		return nil, fmt.Errorf("export public key parameters: %w", err)
	}

	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("reimport public key parameters: %w", err)
	}
	return pub, nil
}

// EncodePEM serializes the private key to a PKCS#8 PEM block, the inverse of
// ImportKeyPairFromPEM.
func EncodePEM(kp *KeyPair) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(kp.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("marshal PKCS#8 private key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})), nil
}
