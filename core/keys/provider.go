package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// KeyPair holds a private key with sign capability and the matching public
// key with verify capability, both created under the recorded algorithm.
// A KeyPair is never mutated after creation.
type KeyPair struct {
	Algorithm  Algorithm
	PrivateKey crypto.Signer
	PublicKey  crypto.PublicKey
}

// Generate creates a fresh key pair. An empty algorithm defaults to EC.
func Generate(alg Algorithm) (*KeyPair, error) {
	if alg == "" {
		alg = EC
	}
	p, ok := alg.params()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}

	var (
		signer crypto.Signer
		err    error
	)
	if p.curve != nil {
		signer, err = ecdsa.GenerateKey(p.curve, rand.Reader)
	} else {
		signer, err = rsa.GenerateKey(rand.Reader, p.bits)
	}
	if err != nil {
		return nil, fmt.Errorf("generate %s key pair: %w", alg, err)
	}

	return &KeyPair{
		Algorithm:  alg,
		PrivateKey: signer,
		PublicKey:  signer.Public(),
	}, nil
}

// Sign produces a signature over data using the key pair's algorithm with a
// SHA-256 digest: ASN.1 DER for ECDSA, PKCS#1 v1.5 for RSA.
func (kp *KeyPair) Sign(data []byte) ([]byte, error) {
	if kp.PrivateKey == nil {
		return nil, fmt.Errorf("sign: %w", ErrUnsupportedKey)
	}

	digest := sha256.Sum256(data)
	sig, err := kp.PrivateKey.Sign(rand.Reader, digest[:], crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("sign with %s key: %w", kp.Algorithm, err)
	}
	return sig, nil
}

// Verify reports whether sig is a valid signature over data for the key
// pair's public key.
func (kp *KeyPair) Verify(data, sig []byte) (bool, error) {
	digest := sha256.Sum256(data)

	switch pub := kp.PublicKey.(type) {
	case *ecdsa.PublicKey:
		return ecdsa.VerifyASN1(pub, digest[:], sig), nil
	case *rsa.PublicKey:
		return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig) == nil, nil
	default:
		return false, fmt.Errorf("verify: %w", ErrUnsupportedKey)
	}
}

// HMACKey is a symmetric key with sign and verify capability, always
// HMAC-SHA256 regardless of the secret's length.
type HMACKey struct {
	secret []byte
}

// ImportHMACKey imports a base64url-encoded secret. Both padded and unpadded
// encodings are accepted.
func ImportHMACKey(secret string) (*HMACKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(secret)
	if err != nil {
		raw, err = base64.URLEncoding.DecodeString(secret)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
		}
	}
	return &HMACKey{secret: raw}, nil
}

// Sign computes the HMAC-SHA256 tag over data. The result is deterministic
// for identical key and data.
func (k *HMACKey) Sign(data []byte) []byte {
	mac := hmac.New(sha256.New, k.secret)
	mac.Write(data)
	return mac.Sum(nil)
}

// Verify reports whether tag is the HMAC-SHA256 tag of data under this key,
// using constant-time comparison.
func (k *HMACKey) Verify(data, tag []byte) bool {
	expected := k.Sign(data)
	return subtle.ConstantTimeCompare(expected, tag) == 1
}
