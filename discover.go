package keykit

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"unicode/utf8"

	"github.com/awnumar/memguard"
	"github.com/youmark/pkcs8"
)

// A probe attempts to classify a DER buffer as one specific container
// format. Probes are pure: a failed probe returns (nil, nil) and leaves no
// trace. A non-nil error is terminal and aborts discovery (for example an
// encrypted container with no password); it is never treated as "try the
// next probe".
type probe struct {
	name    string
	pemType string
	run     func(der []byte, encoding Encoding, password []byte) (*KeyDescriptor, error)
}

// publicProbes and privateProbes are the declared discovery order. Public
// interpretations are evaluated before private ones as permanent policy:
// the original tool did this to sidestep a decoder that aborted when fed
// public-key bytes through a private-key parser, and the ordering is kept
// because it also guarantees that a buffer valid under both readings
// resolves to the safer public interpretation. Within each list, probes run
// once over a PEM body (label-gated) and then over the raw buffer as DER.
var (
	publicProbes = []probe{
		{name: "spki", pemType: "PUBLIC KEY", run: probeSPKI},
		{name: "pkcs1-public", pemType: "RSA PUBLIC KEY", run: probePKCS1Public},
	}
	privateProbes = []probe{
		{name: "pkcs8", pemType: "PRIVATE KEY", run: probePKCS8},
		{name: "pkcs8-encrypted", pemType: "ENCRYPTED PRIVATE KEY", run: probeEncryptedPKCS8},
		{name: "pkcs1-private", pemType: "RSA PRIVATE KEY", run: probePKCS1Private},
		{name: "sec1", pemType: "EC PRIVATE KEY", run: probeSEC1},
	}
)

// Discover classifies an unknown byte buffer as an asymmetric key and
// returns its descriptor. The password is used only if the buffer turns out
// to be an encrypted PKCS#8 container. If nothing matches, the aggregate
// ErrUnknownKeyType is returned; individual probe failures are not reported.
func Discover(data, password []byte) (*KeyDescriptor, error) {
	desc, err := runProbes(publicProbes, data, password)
	if desc != nil || err != nil {
		return desc, err
	}
	desc, err = runProbes(privateProbes, data, password)
	if desc != nil || err != nil {
		return desc, err
	}
	return nil, ErrUnknownKeyType
}

// runProbes evaluates one probe category: a PEM pass when the buffer is
// valid text carrying a PEM block, then a DER pass over the same ordered
// list. The first full success wins; there is no scoring across probes.
func runProbes(probes []probe, data, password []byte) (*KeyDescriptor, error) {
	if block := decodePEMBlock(data); block != nil {
		for _, p := range probes {
			if block.Type != p.pemType {
				continue
			}
			desc, err := p.run(block.Bytes, EncodingPEM, password)
			if desc != nil || err != nil {
				return desc, err
			}
		}
	}
	for _, p := range probes {
		desc, err := p.run(data, EncodingDER, password)
		if desc != nil || err != nil {
			return desc, err
		}
	}
	return nil, nil
}

// decodePEMBlock returns the first PEM block when the buffer is valid text
// containing one, else nil.
func decodePEMBlock(data []byte) *pem.Block {
	if !utf8.Valid(data) {
		return nil
	}
	block, _ := pem.Decode(data)
	return block
}

// probePKCS8 classifies a PKCS#8 PrivateKeyInfo. The algorithm comes from
// the container's OID; the key material is the inner PrivateKey octets.
func probePKCS8(der []byte, encoding Encoding, _ []byte) (*KeyDescriptor, error) {
	var pki privateKeyInfo
	if !unmarshalExact(der, &pki) || pki.Version > 1 || len(pki.PrivateKey) == 0 {
		return nil, nil
	}
	algID := newAlgorithmID(pki.Algorithm)
	alg := algID.Algorithm()

	length := 0
	if alg == AlgorithmRSA || alg == AlgorithmRSASSAPSS {
		var rsaKey rsaPrivateKey
		if unmarshalExact(pki.PrivateKey, &rsaKey) {
			length = len(rsaKey.PrivateExponent.Bytes()) * 8
		}
	}
	return newDescriptor(encoding, FormatPKCS8, KeyTypePrivate, alg, length, algID, pki.PrivateKey), nil
}

// probeEncryptedPKCS8 recognizes an encrypted PKCS#8 container. Without a
// password it fails immediately rather than guessing; with one, decryption
// is attempted exactly once and the decrypted bytes are classified as plain
// PKCS#8.
func probeEncryptedPKCS8(der []byte, encoding Encoding, password []byte) (*KeyDescriptor, error) {
	var epki encryptedPrivateKeyInfo
	if !unmarshalExact(der, &epki) || len(epki.Data) == 0 {
		return nil, nil
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("encrypted PKCS#8 input: %w", ErrMissingPassword)
	}
	key, err := pkcs8.ParsePKCS8PrivateKey(der, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	plain, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: re-encoding decrypted key: %v", ErrBadContainer, err)
	}
	defer memguard.WipeBytes(plain)
	desc, err := probePKCS8(plain, encoding, nil)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, fmt.Errorf("%w: decrypted payload is not a PKCS#8 key", ErrBadContainer)
	}
	return desc, nil
}

// probePKCS1Private classifies a raw PKCS#1 RSAPrivateKey. There is no OID
// in this format; the algorithm is inferred from the structure itself.
func probePKCS1Private(der []byte, encoding Encoding, _ []byte) (*KeyDescriptor, error) {
	var key rsaPrivateKey
	if !unmarshalExact(der, &key) || key.Version > 1 {
		return nil, nil
	}
	length := len(key.PrivateExponent.Bytes()) * 8
	return newDescriptor(encoding, FormatPKCS1, KeyTypePrivate, AlgorithmRSA, length, nil, der), nil
}

// probeSEC1 classifies a SEC1 ECPrivateKey. When the document names its
// curve, an equivalent id-ecPublicKey algorithm identifier is synthesized so
// the curve survives a re-encode into PKCS#8 or SPKI.
func probeSEC1(der []byte, encoding Encoding, _ []byte) (*KeyDescriptor, error) {
	var key ecPrivateKey
	if !unmarshalExact(der, &key) || key.Version != 1 || len(key.PrivateKey) == 0 {
		return nil, nil
	}
	var algID *AlgorithmID
	if len(key.NamedCurveOID) > 0 {
		id, err := CurveAlgorithmID(oidECPublicKey, key.NamedCurveOID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadContainer, err)
		}
		algID = &id
	}
	return newDescriptor(encoding, FormatSEC1, KeyTypePrivate, AlgorithmECDSA, 0, algID, der), nil
}

// probeSPKI classifies a SubjectPublicKeyInfo. The key material is the
// subjectPublicKey BIT STRING contents, which is byte-aligned for every
// supported algorithm.
func probeSPKI(der []byte, encoding Encoding, _ []byte) (*KeyDescriptor, error) {
	var spki subjectPublicKeyInfo
	if !unmarshalExact(der, &spki) || spki.PublicKey.BitLength == 0 || spki.PublicKey.BitLength%8 != 0 {
		return nil, nil
	}
	algID := newAlgorithmID(spki.Algorithm)
	alg := algID.Algorithm()

	length := 0
	if alg == AlgorithmRSA || alg == AlgorithmRSASSAPSS {
		var rsaKey rsaPublicKey
		if unmarshalExact(spki.PublicKey.Bytes, &rsaKey) {
			length = len(rsaKey.Modulus.Bytes()) * 8
		}
	}
	return newDescriptor(encoding, FormatSPKI, KeyTypePublic, alg, length, algID, spki.PublicKey.Bytes), nil
}

// probePKCS1Public classifies a raw PKCS#1 RSAPublicKey (modulus, exponent).
func probePKCS1Public(der []byte, encoding Encoding, _ []byte) (*KeyDescriptor, error) {
	var key rsaPublicKey
	if !unmarshalExact(der, &key) || key.Modulus == nil || key.Modulus.Sign() <= 0 || key.Exponent <= 0 {
		return nil, nil
	}
	length := len(key.Modulus.Bytes()) * 8
	return newDescriptor(encoding, FormatPKCS1, KeyTypePublic, AlgorithmRSA, length, nil, der), nil
}
