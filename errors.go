package keykit

import "errors"

// Sentinel errors returned by discovery and conversion. Callers match them
// with errors.Is; wrapped variants add context about the failing input.
var (
	// ErrUnknownKeyType means no discovery probe matched the input. Individual
	// probe failures are swallowed; no finer-grained diagnostic is retained.
	ErrUnknownKeyType = errors.New("unknown key type")

	// ErrMissingPassword means the input is an encrypted PKCS#8 container and
	// no password was supplied.
	ErrMissingPassword = errors.New("password required for encrypted key")

	// ErrDecrypt means an encrypted PKCS#8 container was recognized but could
	// not be decrypted with the supplied password.
	ErrDecrypt = errors.New("decrypting key")

	// ErrBadContainer means the outer schema matched but the inner ASN.1
	// structure was malformed.
	ErrBadContainer = errors.New("malformed key container")

	// ErrTypeMismatch means a conversion would have to invent private key
	// material from a public key.
	ErrTypeMismatch = errors.New("cannot produce a private key from a public key")

	// ErrUnknownAlgorithm means the descriptor carries no algorithm the
	// conversion engine can act on.
	ErrUnknownAlgorithm = errors.New("unknown or unsupported algorithm")

	// ErrNotSupported means the descriptor is valid but the requested
	// format/encoding combination has no conversion path.
	ErrNotSupported = errors.New("conversion not supported")
)
