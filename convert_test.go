package keykit

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
)

func TestConvert_RSAPrivateRoundTrip(t *testing.T) {
	t.Parallel()

	key := generateRSAKey(t, 2048)
	pkcs1DER := x509.MarshalPKCS1PrivateKey(key)

	desc := mustDiscover(t, pemEncode("RSA PRIVATE KEY", pkcs1DER), nil)
	out, err := Convert(desc, Target{Format: FormatPKCS8, Encoding: EncodingDER})
	if err != nil {
		t.Fatalf("Convert to PKCS8: %v", err)
	}
	parsed, err := x509.ParsePKCS8PrivateKey(out)
	if err != nil {
		t.Fatalf("output is not valid PKCS#8: %v", err)
	}
	rsaParsed, ok := parsed.(*rsa.PrivateKey)
	if !ok || rsaParsed.D.Cmp(key.D) != 0 {
		t.Fatal("round-tripped key does not match the original")
	}

	// And back: PKCS#8 to PKCS#1 must reproduce the original document.
	desc2 := mustDiscover(t, out, nil)
	back, err := Convert(desc2, Target{Format: FormatPKCS1, Encoding: EncodingDER})
	if err != nil {
		t.Fatalf("Convert back to PKCS1: %v", err)
	}
	if !bytes.Equal(back, pkcs1DER) {
		t.Error("PKCS#1 output differs from the original document")
	}
}

func TestConvert_EncodingOnly(t *testing.T) {
	t.Parallel()

	key := generateRSAKey(t, 2048)
	pkcs1DER := x509.MarshalPKCS1PrivateKey(key)

	desc := mustDiscover(t, pkcs1DER, nil)
	out, err := Convert(desc, Target{Encoding: EncodingPEM})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	block, _ := pem.Decode(out)
	if block == nil || block.Type != "RSA PRIVATE KEY" {
		t.Fatalf("expected an RSA PRIVATE KEY PEM block, got %v", block)
	}
	if !bytes.Equal(block.Bytes, pkcs1DER) {
		t.Error("PEM body differs from the input document")
	}
}

func TestConvert_Idempotent(t *testing.T) {
	t.Parallel()

	key := generateRSAKey(t, 2048)
	pkcs8DER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	in := pemEncode("PRIVATE KEY", pkcs8DER)

	desc := mustDiscover(t, in, nil)
	out, err := Convert(desc, Target{})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Error("converting to the discovered format and encoding changed the bytes")
	}
}

func TestConvert_RSASSAPSSRewrap(t *testing.T) {
	t.Parallel()

	key := generateRSAKey(t, 2048)
	desc := mustDiscover(t, x509.MarshalPKCS1PrivateKey(key), nil)

	out, err := Convert(desc, Target{Format: FormatPKCS8, Encoding: EncodingDER, Algorithm: AlgorithmRSASSAPSS})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	desc2 := mustDiscover(t, out, nil)
	if desc2.Algorithm() != AlgorithmRSASSAPSS {
		t.Errorf("algorithm: got %s, want RSASSA-PSS", desc2.Algorithm())
	}
	algID, ok := desc2.AlgorithmID()
	if !ok || !algID.OID.Equal(oidRSASSAPSS) {
		t.Errorf("OID: got %v, want rsassaPss", algID.OID)
	}
	if desc2.KeyLength() != 2048 {
		t.Errorf("key length: got %d, want 2048", desc2.KeyLength())
	}
}

func TestConvert_RSAPublic(t *testing.T) {
	t.Parallel()

	key := generateRSAKey(t, 2048)
	spkiDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("spki_to_pkcs1", func(t *testing.T) {
		t.Parallel()
		desc := mustDiscover(t, spkiDER, nil)
		out, err := Convert(desc, Target{Format: FormatPKCS1, Encoding: EncodingDER})
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		pub, err := x509.ParsePKCS1PublicKey(out)
		if err != nil {
			t.Fatalf("output is not a PKCS#1 public key: %v", err)
		}
		if pub.N.Cmp(key.N) != 0 {
			t.Error("modulus changed across conversion")
		}
	})

	t.Run("pkcs1_to_spki", func(t *testing.T) {
		t.Parallel()
		desc := mustDiscover(t, x509.MarshalPKCS1PublicKey(&key.PublicKey), nil)
		out, err := Convert(desc, Target{Format: FormatSPKI, Encoding: EncodingDER})
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		if !bytes.Equal(out, spkiDER) {
			t.Error("SPKI output differs from the stdlib encoding")
		}
	})
}

func TestConvert_ECPrivateCurveReinjection(t *testing.T) {
	t.Parallel()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	pkcs8DER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}

	// PKCS#8 carries the curve in the algorithm identifier, not inside the
	// ECPrivateKey. The SEC1 output must stand alone, so the curve has to be
	// re-injected on the way out.
	desc := mustDiscover(t, pkcs8DER, nil)
	out, err := Convert(desc, Target{Format: FormatSEC1, Encoding: EncodingDER})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	parsed, err := x509.ParseECPrivateKey(out)
	if err != nil {
		t.Fatalf("output is not a standalone SEC1 key: %v", err)
	}
	if parsed.Curve != elliptic.P256() {
		t.Errorf("curve: got %v, want P-256", parsed.Curve.Params().Name)
	}
	if parsed.D.Cmp(key.D) != 0 {
		t.Error("scalar changed across conversion")
	}
}

func TestConvert_SEC1PassThrough(t *testing.T) {
	t.Parallel()

	key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	sec1DER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}

	desc := mustDiscover(t, sec1DER, nil)
	out, err := Convert(desc, Target{Encoding: EncodingPEM})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	block, _ := pem.Decode(out)
	if block == nil || block.Type != "EC PRIVATE KEY" {
		t.Fatalf("expected an EC PRIVATE KEY PEM block, got %v", block)
	}
	if !bytes.Equal(block.Bytes, sec1DER) {
		t.Error("SEC1 document changed across an encoding-only conversion")
	}
}

func TestConvert_ECPublicVerbatimAlgorithmID(t *testing.T) {
	t.Parallel()

	key, err := ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	spkiDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}

	desc := mustDiscover(t, spkiDER, nil)
	out, err := Convert(desc, Target{Encoding: EncodingDER})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	// The algorithm identifier is reproduced byte-for-byte, so the whole
	// document must survive untouched.
	if !bytes.Equal(out, spkiDER) {
		t.Error("SPKI output differs from the source document")
	}
}

func TestConvert_EncryptedPKCS8Output(t *testing.T) {
	t.Parallel()

	key := generateRSAKey(t, 2048)
	password := []byte("hunter2")
	desc := mustDiscover(t, x509.MarshalPKCS1PrivateKey(key), nil)

	out, err := Convert(desc, Target{Format: FormatPKCS8, Encoding: EncodingPEM, Password: password})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	block, _ := pem.Decode(out)
	if block == nil || block.Type != "ENCRYPTED PRIVATE KEY" {
		t.Fatalf("expected an ENCRYPTED PRIVATE KEY PEM block, got %v", block)
	}

	desc2 := mustDiscover(t, out, password)
	if desc2.Format() != FormatPKCS8 || desc2.Algorithm() != AlgorithmRSA {
		t.Errorf("got %s %s, want PKCS8 RSA", desc2.Format(), desc2.Algorithm())
	}
}

func TestConvert_Rejections(t *testing.T) {
	t.Parallel()

	rsaKey := generateRSAKey(t, 2048)
	rsaPrivDER := x509.MarshalPKCS1PrivateKey(rsaKey)
	rsaPubDER := x509.MarshalPKCS1PublicKey(&rsaKey.PublicKey)

	_, edPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	edDER, err := x509.MarshalPKCS8PrivateKey(edPriv)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		data    []byte
		target  Target
		wantErr error
	}{
		{"public_to_private", rsaPubDER, Target{KeyType: KeyTypePrivate}, ErrTypeMismatch},
		{"cross_family", rsaPrivDER, Target{Algorithm: AlgorithmECDSA}, ErrNotSupported},
		{"rsa_private_to_spki", rsaPrivDER, Target{Format: FormatSPKI}, ErrNotSupported},
		{"rsa_private_to_sec1", rsaPrivDER, Target{Format: FormatSEC1}, ErrNotSupported},
		{"jwk_output", rsaPrivDER, Target{Encoding: EncodingJWK}, ErrNotSupported},
		// Ed25519 private material is a CurvePrivateKey, not a SEC1 document,
		// so the private-key path cannot re-serialize it.
		{"ed25519_private", edDER, Target{Encoding: EncodingPEM}, ErrBadContainer},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			desc := mustDiscover(t, tt.data, nil)
			_, err := Convert(desc, tt.target)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvert_OutputSurvivesClose(t *testing.T) {
	t.Parallel()

	key := generateRSAKey(t, 2048)
	pkcs1DER := x509.MarshalPKCS1PrivateKey(key)

	desc, err := Discover(pkcs1DER, nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Convert(desc, Target{Encoding: EncodingDER})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	desc.Close()

	// The output must not alias the wiped locked buffer.
	if _, err := x509.ParsePKCS1PrivateKey(out); err != nil {
		t.Fatalf("output unusable after Close: %v", err)
	}
}
