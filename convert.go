package keykit

import (
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"fmt"

	"github.com/youmark/pkcs8"
)

// algorithm families for conversion compatibility. RSA and RSASSA-PSS share
// key material and differ only in the OID stamped on re-wrap; every other
// algorithm is its own family.
type family int

const (
	familyNone family = iota
	familyRSA
	familyECDSA
	familyEd25519
	familyEd448
	familyEd25519ph
	familyEd448ph
	familyX25519
	familyX448
)

func algorithmFamily(alg Algorithm) family {
	switch alg {
	case AlgorithmRSA, AlgorithmRSASSAPSS:
		return familyRSA
	case AlgorithmECDSA:
		return familyECDSA
	case AlgorithmEd25519:
		return familyEd25519
	case AlgorithmEd448:
		return familyEd448
	case AlgorithmEd25519ph:
		return familyEd25519ph
	case AlgorithmEd448ph:
		return familyEd448ph
	case AlgorithmX25519:
		return familyX25519
	case AlgorithmX448:
		return familyX448
	default:
		return familyNone
	}
}

// edFamily reports whether the family is one of the EdDSA variants, which
// share the ECDSA conversion paths in the dispatch matrix.
func edFamily(f family) bool {
	switch f {
	case familyEd25519, familyEd448, familyEd25519ph, familyEd448ph:
		return true
	}
	return false
}

// Convert re-serializes a discovered key into the container format and
// encoding named by target. Unset target fields are defaulted from the
// descriptor first. The descriptor is read-only throughout; output is
// returned as a single buffer and nothing is emitted on error.
func Convert(desc *KeyDescriptor, target Target) ([]byte, error) {
	t := ResolveTarget(desc, target)

	// Compatibility gate: public key material can never yield a private key,
	// and key material never crosses algorithm families.
	if desc.keyType == KeyTypePublic && t.KeyType != KeyTypePublic {
		return nil, fmt.Errorf("%s to %s: %w", desc.keyType, t.KeyType, ErrTypeMismatch)
	}
	srcFamily := algorithmFamily(desc.algorithm)
	if srcFamily != algorithmFamily(t.Algorithm) {
		return nil, fmt.Errorf("%s key to %s: %w", orUnknown(string(desc.algorithm)), orUnknown(string(t.Algorithm)), ErrNotSupported)
	}

	var der []byte
	var pemType string
	var err error
	switch {
	case srcFamily == familyRSA && desc.keyType == KeyTypePrivate:
		der, pemType, err = encodeRSAPrivate(desc, t)
	case srcFamily == familyRSA && desc.keyType == KeyTypePublic:
		der, pemType, err = encodeRSAPublic(desc, t)
	case (srcFamily == familyECDSA || edFamily(srcFamily)) && desc.keyType == KeyTypePrivate:
		der, pemType, err = encodeSEC1(desc)
	case (srcFamily == familyECDSA || edFamily(srcFamily)) && desc.keyType == KeyTypePublic:
		der, pemType, err = encodeSPKI(desc)
	default:
		return nil, fmt.Errorf("%s %s key: %w", orUnknown(string(desc.algorithm)), orUnknown(string(desc.keyType)), ErrNotSupported)
	}
	if err != nil {
		return nil, err
	}
	return encodeOutput(der, pemType, t.Encoding)
}

// rsaOID picks the algorithm identifier OID for RSA-family re-wrapping. The
// target algorithm only disambiguates rsaEncryption from RSASSA-PSS; both
// take a NULL parameter.
func rsaOID(alg Algorithm) asn1.ObjectIdentifier {
	if alg == AlgorithmRSASSAPSS {
		return oidRSASSAPSS
	}
	return oidRSAEncryption
}

// encodeRSAPrivate re-serializes RSA private key material as PKCS#1 or
// PKCS#8. The material is already a PKCS#1 RSAPrivateKey document, so PKCS#1
// output validates and emits it as-is, while PKCS#8 wraps it in a
// PrivateKeyInfo carrying the chosen RSA OID. A target password produces an
// encrypted PKCS#8 container instead.
func encodeRSAPrivate(desc *KeyDescriptor, t Target) ([]byte, string, error) {
	material := desc.KeyMaterial()
	var key rsaPrivateKey
	if !unmarshalExact(material, &key) {
		return nil, "", fmt.Errorf("%w: key material is not an RSA private key", ErrBadContainer)
	}

	switch t.Format {
	case FormatPKCS1:
		// Copy: the output must outlive the descriptor's locked buffer.
		return append([]byte(nil), material...), "RSA PRIVATE KEY", nil
	case FormatPKCS8:
		if len(t.Password) > 0 {
			return encryptPKCS8(material, t.Password)
		}
		shell := privateKeyInfo{
			Version:    0,
			Algorithm:  NullAlgorithmID(rsaOID(t.Algorithm)).identifier(),
			PrivateKey: material,
		}
		der, err := asn1.Marshal(shell)
		if err != nil {
			return nil, "", fmt.Errorf("encoding PrivateKeyInfo: %w", err)
		}
		return der, "PRIVATE KEY", nil
	default:
		return nil, "", fmt.Errorf("RSA private key to %s: %w", t.Format, ErrNotSupported)
	}
}

// encodeRSAPublic re-serializes RSA public key material as raw PKCS#1 or as
// a SubjectPublicKeyInfo (requested as either PKCS8 or SPKI).
func encodeRSAPublic(desc *KeyDescriptor, t Target) ([]byte, string, error) {
	material := desc.KeyMaterial()
	var key rsaPublicKey
	if !unmarshalExact(material, &key) {
		return nil, "", fmt.Errorf("%w: key material is not an RSA public key", ErrBadContainer)
	}

	switch t.Format {
	case FormatPKCS1:
		return append([]byte(nil), material...), "RSA PUBLIC KEY", nil
	case FormatPKCS8, FormatSPKI:
		shell := subjectPublicKeyInfo{
			Algorithm: NullAlgorithmID(rsaOID(t.Algorithm)).identifier(),
			PublicKey: asn1.BitString{Bytes: material, BitLength: len(material) * 8},
		}
		der, err := asn1.Marshal(shell)
		if err != nil {
			return nil, "", fmt.Errorf("encoding SubjectPublicKeyInfo: %w", err)
		}
		return der, "PUBLIC KEY", nil
	default:
		return nil, "", fmt.Errorf("RSA public key to %s: %w", t.Format, ErrNotSupported)
	}
}

// encodeSEC1 emits an elliptic-curve private key as a SEC1 document
// regardless of requested format. Material sourced from PKCS#8 usually omits
// the named curve inside the ECPrivateKey; when the descriptor preserved a
// curve in its algorithm identifier it is re-injected here so the output
// stands alone.
func encodeSEC1(desc *KeyDescriptor) ([]byte, string, error) {
	material := desc.KeyMaterial()
	var key ecPrivateKey
	if !unmarshalExact(material, &key) {
		return nil, "", fmt.Errorf("%w: key material is not a SEC1 private key", ErrBadContainer)
	}
	if len(key.NamedCurveOID) > 0 || desc.algID == nil {
		return append([]byte(nil), material...), "EC PRIVATE KEY", nil
	}
	curve, ok := desc.algID.NamedCurve()
	if !ok {
		return append([]byte(nil), material...), "EC PRIVATE KEY", nil
	}
	key.NamedCurveOID = curve

	var der []byte
	var err error
	if key.PublicKey.BitLength == 0 {
		// Marshal without the optional public key element: asn1 would emit an
		// empty BIT STRING rather than omit the zero value inside [1].
		der, err = asn1.Marshal(struct {
			Version       int
			PrivateKey    []byte
			NamedCurveOID asn1.ObjectIdentifier `asn1:"explicit,tag:0"`
		}{key.Version, key.PrivateKey, key.NamedCurveOID})
	} else {
		der, err = asn1.Marshal(key)
	}
	if err != nil {
		return nil, "", fmt.Errorf("encoding ECPrivateKey: %w", err)
	}
	return der, "EC PRIVATE KEY", nil
}

// encodeSPKI emits a public key as a SubjectPublicKeyInfo, reproducing the
// source algorithm identifier byte-for-byte so curve parameters survive.
func encodeSPKI(desc *KeyDescriptor) ([]byte, string, error) {
	if desc.algID == nil {
		return nil, "", fmt.Errorf("public key carries no algorithm identifier: %w", ErrUnknownAlgorithm)
	}
	material := desc.KeyMaterial()
	shell := subjectPublicKeyInfo{
		Algorithm: desc.algID.identifier(),
		PublicKey: asn1.BitString{Bytes: material, BitLength: len(material) * 8},
	}
	der, err := asn1.Marshal(shell)
	if err != nil {
		return nil, "", fmt.Errorf("encoding SubjectPublicKeyInfo: %w", err)
	}
	return der, "PUBLIC KEY", nil
}

// encryptPKCS8 wraps PKCS#1 RSA private key material in an encrypted PKCS#8
// container. The material is parsed into a crypto key only long enough for
// the codec library to re-encode it under the password.
func encryptPKCS8(material, password []byte) ([]byte, string, error) {
	key, err := x509.ParsePKCS1PrivateKey(material)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadContainer, err)
	}
	der, err := pkcs8.MarshalPrivateKey(key, password, nil)
	if err != nil {
		return nil, "", fmt.Errorf("encrypting PKCS#8 output: %w", err)
	}
	return der, "ENCRYPTED PRIVATE KEY", nil
}

// encodeOutput serializes container bytes per the target encoding. PEM output
// uses LF line endings, the encoding/pem convention.
func encodeOutput(der []byte, pemType string, encoding Encoding) ([]byte, error) {
	switch encoding {
	case EncodingDER:
		return der, nil
	case EncodingPEM:
		return pem.EncodeToMemory(&pem.Block{Type: pemType, Bytes: der}), nil
	case EncodingJWK:
		return nil, fmt.Errorf("JWK output: %w", ErrNotSupported)
	default:
		return nil, fmt.Errorf("encoding %q: %w", string(encoding), ErrNotSupported)
	}
}
