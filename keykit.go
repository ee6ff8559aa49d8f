// Package keykit classifies asymmetric key material of unknown provenance
// and re-serializes it between container formats (PKCS#1, PKCS#8, SEC1,
// SPKI) and encodings (PEM, DER). It inspects only the ASN.1 scaffolding
// around the key; the key material itself is carried as opaque bytes and
// never interpreted cryptographically.
package keykit

import (
	"encoding/asn1"
	"fmt"
	"strings"

	"github.com/awnumar/memguard"
)

// Encoding identifies the outer text/binary encoding of a key document.
type Encoding string

// Recognized encodings. JWK is declared but never produced; requesting it
// fails with ErrNotSupported.
const (
	EncodingUnknown Encoding = ""
	EncodingPEM     Encoding = "PEM"
	EncodingDER     Encoding = "DER"
	EncodingJWK     Encoding = "JWK"
)

// Format identifies the ASN.1 container shape of a key document.
type Format string

// Recognized container formats.
const (
	FormatUnknown Format = ""
	FormatPKCS1   Format = "PKCS1"
	FormatPKCS8   Format = "PKCS8"
	FormatSPKI    Format = "SPKI"
	FormatSEC1    Format = "SEC1"
)

// KeyType distinguishes public from private key material.
type KeyType string

// Recognized key types. KeyTypeKeyPair is declared for completeness but is
// never produced by discovery.
const (
	KeyTypeUnknown KeyType = ""
	KeyTypePublic  KeyType = "PUBLIC"
	KeyTypePrivate KeyType = "PRIVATE"
	KeyTypeKeyPair KeyType = "KEYPAIR"
)

// Algorithm identifies the key algorithm family derived from the container's
// algorithm identifier OID, or inferred structurally for raw PKCS#1.
type Algorithm string

// Recognized algorithms.
const (
	AlgorithmUnknown   Algorithm = ""
	AlgorithmRSA       Algorithm = "RSA"
	AlgorithmRSASSAPSS Algorithm = "RSASSA-PSS"
	AlgorithmECDSA     Algorithm = "ECDSA"
	AlgorithmX25519    Algorithm = "X25519"
	AlgorithmX448      Algorithm = "X448"
	AlgorithmEd25519   Algorithm = "Ed25519"
	AlgorithmEd448     Algorithm = "Ed448"
	AlgorithmEd25519ph Algorithm = "Ed25519ph"
	AlgorithmEd448ph   Algorithm = "Ed448ph"
)

// ParseEncoding converts a string such as "pem" to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToUpper(s) {
	case "PEM":
		return EncodingPEM, nil
	case "DER":
		return EncodingDER, nil
	case "JWK":
		return EncodingJWK, nil
	default:
		return EncodingUnknown, fmt.Errorf("unknown encoding %q", s)
	}
}

// ParseFormat converts a string such as "pkcs8" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(s) {
	case "PKCS1":
		return FormatPKCS1, nil
	case "PKCS8":
		return FormatPKCS8, nil
	case "SPKI":
		return FormatSPKI, nil
	case "SEC1":
		return FormatSEC1, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown format %q", s)
	}
}

// ParseKeyType converts a string such as "private" to a KeyType.
func ParseKeyType(s string) (KeyType, error) {
	switch strings.ToUpper(s) {
	case "PUBLIC":
		return KeyTypePublic, nil
	case "PRIVATE":
		return KeyTypePrivate, nil
	case "KEYPAIR":
		return KeyTypeKeyPair, nil
	default:
		return KeyTypeUnknown, fmt.Errorf("unknown key type %q", s)
	}
}

// ParseAlgorithm converts a string such as "rsa" to an Algorithm. A few
// aliases seen in the wild (RSASSA_PSS, ED25519) are accepted.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToUpper(s) {
	case "RSA":
		return AlgorithmRSA, nil
	case "RSASSA-PSS", "RSASSA_PSS", "RSA-PSS":
		return AlgorithmRSASSAPSS, nil
	case "ECDSA", "EC":
		return AlgorithmECDSA, nil
	case "X25519":
		return AlgorithmX25519, nil
	case "X448":
		return AlgorithmX448, nil
	case "ED25519":
		return AlgorithmEd25519, nil
	case "ED448":
		return AlgorithmEd448, nil
	case "ED25519PH":
		return AlgorithmEd25519ph, nil
	case "ED448PH":
		return AlgorithmEd448ph, nil
	default:
		return AlgorithmUnknown, fmt.Errorf("unknown algorithm %q", s)
	}
}

// KeyDescriptor is the canonical classification of a key produced by
// Discover. It is immutable once built; the key material lives in a locked
// buffer that is wiped by Close.
type KeyDescriptor struct {
	encoding  Encoding
	format    Format
	keyType   KeyType
	algorithm Algorithm
	keyLength int
	algID     *AlgorithmID
	material  *memguard.LockedBuffer
}

// newDescriptor is the single validated construction step for descriptors.
// The material is copied into a locked buffer; the intermediate copy is
// wiped by memguard, while the caller's slice (which may alias the original
// input buffer) is left alone.
func newDescriptor(encoding Encoding, format Format, keyType KeyType, algorithm Algorithm, keyLength int, algID *AlgorithmID, material []byte) *KeyDescriptor {
	return &KeyDescriptor{
		encoding:  encoding,
		format:    format,
		keyType:   keyType,
		algorithm: algorithm,
		keyLength: keyLength,
		algID:     algID,
		material:  memguard.NewBufferFromBytes(append([]byte(nil), material...)),
	}
}

// Encoding returns the encoding the key was discovered in.
func (d *KeyDescriptor) Encoding() Encoding { return d.encoding }

// Format returns the container format the key was discovered in.
func (d *KeyDescriptor) Format() Format { return d.format }

// KeyType reports whether the key is public or private.
func (d *KeyDescriptor) KeyType() KeyType { return d.keyType }

// Algorithm returns the key algorithm.
func (d *KeyDescriptor) Algorithm() Algorithm { return d.algorithm }

// KeyLength returns the key length in bits, or 0 if it was not derived.
func (d *KeyDescriptor) KeyLength() int { return d.keyLength }

// AlgorithmID returns a copy of the algorithm identifier carried verbatim
// from the source container, and whether one was present.
func (d *KeyDescriptor) AlgorithmID() (AlgorithmID, bool) {
	if d.algID == nil {
		return AlgorithmID{}, false
	}
	return d.algID.clone(), true
}

// KeyMaterial returns the inner key bytes (not the whole container). The
// slice aliases the locked buffer and must not be used after Close.
func (d *KeyDescriptor) KeyMaterial() []byte {
	if d.material == nil {
		return nil
	}
	return d.material.Bytes()
}

// Close wipes the key material. Safe to call more than once.
func (d *KeyDescriptor) Close() {
	if d.material != nil {
		d.material.Destroy()
	}
}

// String renders a human-readable multi-line description of the key, used by
// the show command.
func (d *KeyDescriptor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Key Type: %s\n", orUnknown(string(d.keyType)))
	fmt.Fprintf(&b, "Encoding: %s\n", orUnknown(string(d.encoding)))
	fmt.Fprintf(&b, "Format: %s\n", orUnknown(string(d.format)))
	fmt.Fprintf(&b, "Algorithm: %s\n", orUnknown(string(d.algorithm)))
	if d.keyLength > 0 {
		fmt.Fprintf(&b, "Key Length: %d\n", d.keyLength)
	}
	if d.algID != nil {
		fmt.Fprintf(&b, "Algorithm Identifier\n\tObject Identifier: %s (%s)\n", OIDName(d.algID.OID), d.algID.OID)
		if params := d.algID.Parameters; len(params) > 0 {
			fmt.Fprintf(&b, "\tParameters: %s\n", describeParameters(params))
		}
	}
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// describeParameters renders algorithm identifier parameters: the two shapes
// the engine understands are an ASN.1 NULL and an embedded curve OID.
func describeParameters(params []byte) string {
	var oid asn1.ObjectIdentifier
	if rest, err := asn1.Unmarshal(params, &oid); err == nil && len(rest) == 0 {
		return fmt.Sprintf("%s (%s)", OIDName(oid), oid)
	}
	var null asn1.RawValue
	if rest, err := asn1.Unmarshal(params, &null); err == nil && len(rest) == 0 && null.Tag == asn1.TagNull {
		return "NULL"
	}
	return "unknown"
}

// Target describes the requested output of a conversion. The zero value of
// every field means "unset"; ResolveTarget fills unset fields from a
// discovered descriptor. KeyID is carried for JWK output only, which is not
// implemented. Password, when set, encrypts PKCS#8 private key output.
type Target struct {
	Encoding  Encoding
	Format    Format
	KeyType   KeyType
	Algorithm Algorithm
	KeyID     string
	Password  []byte
}

// ResolveTarget returns a copy of target with every unset field defaulted
// from the descriptor. This is the only place conversion defaults are
// applied; Discover and Convert never mutate a caller's Target.
func ResolveTarget(d *KeyDescriptor, target Target) Target {
	if target.Encoding == EncodingUnknown {
		target.Encoding = d.encoding
	}
	if target.Format == FormatUnknown {
		target.Format = d.format
	}
	if target.KeyType == KeyTypeUnknown {
		target.KeyType = d.keyType
	}
	if target.Algorithm == AlgorithmUnknown {
		target.Algorithm = d.algorithm
	}
	return target
}
