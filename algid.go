package keykit

import (
	"encoding/asn1"
	"fmt"
)

// Key algorithm OIDs recognized by the discovery and conversion engines.
var (
	oidRSAEncryption = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	oidRSASSAPSS     = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 10}
	oidECPublicKey   = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidX25519        = asn1.ObjectIdentifier{1, 3, 101, 110}
	oidX448          = asn1.ObjectIdentifier{1, 3, 101, 111}
	oidEd25519       = asn1.ObjectIdentifier{1, 3, 101, 112}
	oidEd448         = asn1.ObjectIdentifier{1, 3, 101, 113}
	oidEd25519ph     = asn1.ObjectIdentifier{1, 3, 101, 114}
	oidEd448ph       = asn1.ObjectIdentifier{1, 3, 101, 115}
)

// Named curve OIDs, recognized for display and SEC1 curve re-injection.
var (
	oidPrime256v1 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidSecp224r1  = asn1.ObjectIdentifier{1, 3, 132, 0, 33}
	oidSecp256k1  = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
	oidSecp384r1  = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
	oidSecp521r1  = asn1.ObjectIdentifier{1, 3, 132, 0, 35}
)

// algorithmOIDs is the fixed OID to algorithm mapping. Discovery derives the
// descriptor's algorithm from this table, so a descriptor's OID and
// algorithm can never disagree.
var algorithmOIDs = []struct {
	oid asn1.ObjectIdentifier
	alg Algorithm
}{
	{oidRSAEncryption, AlgorithmRSA},
	{oidRSASSAPSS, AlgorithmRSASSAPSS},
	{oidECPublicKey, AlgorithmECDSA},
	{oidX25519, AlgorithmX25519},
	{oidX448, AlgorithmX448},
	{oidEd25519, AlgorithmEd25519},
	{oidEd448, AlgorithmEd448},
	{oidEd25519ph, AlgorithmEd25519ph},
	{oidEd448ph, AlgorithmEd448ph},
}

// AlgorithmFromOID returns the algorithm named by an OID, or
// AlgorithmUnknown if the OID is not in the mapping table. An unknown OID is
// not an error: the descriptor still classifies, it just cannot be converted.
func AlgorithmFromOID(oid asn1.ObjectIdentifier) Algorithm {
	for _, entry := range algorithmOIDs {
		if oid.Equal(entry.oid) {
			return entry.alg
		}
	}
	return AlgorithmUnknown
}

// OIDName returns the conventional name for a known algorithm or curve OID,
// or "unknown" otherwise.
func OIDName(oid asn1.ObjectIdentifier) string {
	switch {
	case oid.Equal(oidRSAEncryption):
		return "rsaEncryption"
	case oid.Equal(oidRSASSAPSS):
		return "rsassaPss"
	case oid.Equal(oidECPublicKey):
		return "id-ecPublicKey"
	case oid.Equal(oidX25519):
		return "id-X25519"
	case oid.Equal(oidX448):
		return "id-X448"
	case oid.Equal(oidEd25519):
		return "id-Ed25519"
	case oid.Equal(oidEd448):
		return "id-Ed448"
	case oid.Equal(oidEd25519ph):
		return "id-Ed25519ph"
	case oid.Equal(oidEd448ph):
		return "id-Ed448ph"
	case oid.Equal(oidPrime256v1):
		return "prime256v1"
	case oid.Equal(oidSecp224r1):
		return "secp224r1"
	case oid.Equal(oidSecp256k1):
		return "secp256k1"
	case oid.Equal(oidSecp384r1):
		return "secp384r1"
	case oid.Equal(oidSecp521r1):
		return "secp521r1"
	default:
		return "unknown"
	}
}

// AlgorithmID pairs an algorithm OID with its raw DER-encoded parameters.
// Parameters are kept byte-for-byte as they appeared in the source container
// so curve and padding information survives a re-encode intact.
type AlgorithmID struct {
	OID        asn1.ObjectIdentifier
	Parameters []byte
}

// NullAlgorithmID builds an algorithm identifier with an ASN.1 NULL
// parameter, the shape used by the RSA family OIDs.
func NullAlgorithmID(oid asn1.ObjectIdentifier) AlgorithmID {
	return AlgorithmID{OID: oid, Parameters: []byte{0x05, 0x00}}
}

// CurveAlgorithmID builds an algorithm identifier whose parameter is an
// embedded OID naming an elliptic curve.
func CurveAlgorithmID(oid, curve asn1.ObjectIdentifier) (AlgorithmID, error) {
	params, err := asn1.Marshal(curve)
	if err != nil {
		return AlgorithmID{}, fmt.Errorf("encoding curve parameter: %w", err)
	}
	return AlgorithmID{OID: oid, Parameters: params}, nil
}

// Algorithm returns the algorithm named by the identifier's OID, or
// AlgorithmUnknown for an OID outside the mapping table.
func (id AlgorithmID) Algorithm() Algorithm {
	return AlgorithmFromOID(id.OID)
}

// NamedCurve decodes the parameters as an embedded curve OID. Reports false
// when the parameters are absent or not an OID.
func (id AlgorithmID) NamedCurve() (asn1.ObjectIdentifier, bool) {
	if len(id.Parameters) == 0 {
		return nil, false
	}
	var curve asn1.ObjectIdentifier
	rest, err := asn1.Unmarshal(id.Parameters, &curve)
	if err != nil || len(rest) != 0 {
		return nil, false
	}
	return curve, true
}

func (id AlgorithmID) clone() AlgorithmID {
	out := AlgorithmID{OID: append(asn1.ObjectIdentifier(nil), id.OID...)}
	if id.Parameters != nil {
		out.Parameters = append([]byte(nil), id.Parameters...)
	}
	return out
}

// identifier converts to the ASN.1 marshaling shell, reproducing the
// parameter bytes verbatim.
func (id AlgorithmID) identifier() algorithmIdentifier {
	ai := algorithmIdentifier{Algorithm: id.OID}
	if len(id.Parameters) > 0 {
		ai.Parameters = asn1.RawValue{FullBytes: id.Parameters}
	}
	return ai
}

// newAlgorithmID copies a decoded ASN.1 algorithm identifier into an
// AlgorithmID, preserving the raw parameter bytes.
func newAlgorithmID(ai algorithmIdentifier) *AlgorithmID {
	id := &AlgorithmID{OID: append(asn1.ObjectIdentifier(nil), ai.Algorithm...)}
	if len(ai.Parameters.FullBytes) > 0 {
		id.Parameters = append([]byte(nil), ai.Parameters.FullBytes...)
	}
	return id
}
