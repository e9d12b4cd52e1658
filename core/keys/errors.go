package keys

import "errors"

var (
	// ErrUnsupportedAlgorithm is returned when an algorithm selector has no
	// registered parameter set.
	ErrUnsupportedAlgorithm = errors.New("unsupported key algorithm")

	// ErrMalformedPEM is returned when no PEM block can be extracted from the
	// provided text.
	ErrMalformedPEM = errors.New("malformed PEM input")

	// ErrKeyMismatch is returned when imported key material does not match the
	// requested algorithm's parameters.
	ErrKeyMismatch = errors.New("key does not match requested algorithm")

	// ErrInvalidSecret is returned when an HMAC secret is not valid base64url.
	ErrInvalidSecret = errors.New("secret is not valid base64url")

	// ErrUnsupportedKey is returned when key material of an unknown type is
	// handed to a signing or verification operation.
	ErrUnsupportedKey = errors.New("unsupported key material")
)
