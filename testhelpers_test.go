package keykit

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/pem"
	"testing"
)

// generateRSAKey creates an RSA key whose private exponent occupies exactly
// bits/8 bytes, so key-length assertions are deterministic. The exponent of a
// freshly generated key is occasionally a byte short; regenerate until it
// is full width.
func generateRSAKey(t *testing.T, bits int) *rsa.PrivateKey {
	t.Helper()
	for i := 0; i < 20; i++ {
		key, err := rsa.GenerateKey(rand.Reader, bits)
		if err != nil {
			t.Fatal(err)
		}
		if len(key.D.Bytes()) == bits/8 {
			return key
		}
	}
	t.Fatalf("could not generate %d-bit RSA key with full-width exponent", bits)
	return nil
}

func pemEncode(pemType string, der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: pemType, Bytes: der})
}

// mustDiscover classifies data and registers cleanup for the descriptor.
func mustDiscover(t *testing.T, data, password []byte) *KeyDescriptor {
	t.Helper()
	desc, err := Discover(data, password)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	t.Cleanup(desc.Close)
	return desc
}
