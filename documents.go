package keykit

import (
	"encoding/asn1"
	"math/big"
)

// ASN.1 shells for the container formats the engine classifies. Only the
// outer scaffolding is modeled; key material stays opaque. Everything below
// round-trips through encoding/asn1, which also consumes the documents the
// conversion engine produces.

// algorithmIdentifier is the (OID, parameters) pair embedded in PKCS#8 and
// SPKI containers. Parameters are captured raw so they can be reproduced
// byte-for-byte.
type algorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.RawValue `asn1:"optional"`
}

// privateKeyInfo is the PKCS#8 PrivateKeyInfo container (RFC 5208, with the
// RFC 5958 v2 optional fields tolerated on decode and omitted on encode).
type privateKeyInfo struct {
	Version    int
	Algorithm  algorithmIdentifier
	PrivateKey []byte
	Attributes asn1.RawValue `asn1:"optional,tag:0"`
	PublicKey  asn1.RawValue `asn1:"optional,tag:1"`
}

// encryptedPrivateKeyInfo is the outer shell of an encrypted PKCS#8
// container (RFC 5208). Decryption is delegated to the codec library; only
// the shape is recognized here.
type encryptedPrivateKeyInfo struct {
	Algorithm algorithmIdentifier
	Data      []byte
}

// subjectPublicKeyInfo is the SPKI container (RFC 5280).
type subjectPublicKeyInfo struct {
	Algorithm algorithmIdentifier
	PublicKey asn1.BitString
}

// rsaPrivateKey is the raw PKCS#1 RSAPrivateKey structure (RFC 8017).
type rsaPrivateKey struct {
	Version          int
	Modulus          *big.Int
	PublicExponent   *big.Int
	PrivateExponent  *big.Int
	Prime1           *big.Int
	Prime2           *big.Int
	Exponent1        *big.Int
	Exponent2        *big.Int
	Coefficient      *big.Int
	AdditionalPrimes []rsaOtherPrimeInfo `asn1:"optional,omitempty"`
}

type rsaOtherPrimeInfo struct {
	Prime       *big.Int
	Exponent    *big.Int
	Coefficient *big.Int
}

// rsaPublicKey is the raw PKCS#1 RSAPublicKey structure (RFC 8017).
type rsaPublicKey struct {
	Modulus  *big.Int
	Exponent int
}

// ecPrivateKey is the SEC1 ECPrivateKey structure (RFC 5915). The named
// curve and public key are optional: PKCS#8-wrapped EC keys usually carry
// the curve in the outer algorithm identifier instead.
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

// unmarshalExact decodes DER into val and reports success only when the
// whole buffer was consumed. Probes rely on this strictness so a document
// with trailing garbage never classifies.
func unmarshalExact(der []byte, val any) bool {
	rest, err := asn1.Unmarshal(der, val)
	return err == nil && len(rest) == 0
}
