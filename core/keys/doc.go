// Package keys provides the key material primitives of the issuance
// workflow: key pair generation, PKCS#8 PEM import/export, HMAC key import,
// and signing with SHA-256.
//
// Three algorithms are supported, each bound to a fixed parameter set:
//
//   - keys.EC: ECDSA over P-256 (the default everywhere an algorithm is optional)
//   - keys.RSA: RSASSA-PKCS1-v1_5, 2048-bit modulus
//   - keys.RSA4096: RSASSA-PKCS1-v1_5, 4096-bit modulus
//
// # Errors
//
//   - ErrUnsupportedAlgorithm: algorithm selector has no parameter set
//   - ErrMalformedPEM: no PEM block in the input
//   - ErrKeyMismatch: key material disagrees with the requested algorithm
//   - ErrInvalidSecret: HMAC secret is not base64url
//   - ErrUnsupportedKey: unknown key material type
//
// # Basic Usage
//
//	kp, err := keys.Generate(keys.EC)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sig, err := kp.Sign([]byte("payload"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ok, _ := kp.Verify([]byte("payload"), sig)
//
// Importing an existing PKCS#8 private key derives the public key from the
// private key's exported parameters, so no separate public key file is
// needed:
//
//	kp, err := keys.ImportKeyPairFromPEM(pemText, keys.RSA)
package keys
