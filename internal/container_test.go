package internal

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/pavlo-v-chernykh/keystore-go/v4"
	"golang.org/x/crypto/ssh"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"
)

// buildPKCS12 wraps a fresh EC key and self-signed cert in a PKCS#12 bundle.
func buildPKCS12(t *testing.T, password string) (*ecdsa.PrivateKey, []byte) {
	t.Helper()
	key := generateECKey(t)
	cert := selfSignedCert(t, key)
	data, err := gopkcs12.Modern.Encode(key, cert, nil, password)
	if err != nil {
		t.Fatal(err)
	}
	return key, data
}

// buildJKS stores a fresh EC key in a Java KeyStore, using the same password
// for the store and the entry.
func buildJKS(t *testing.T, password string) (*ecdsa.PrivateKey, []byte) {
	t.Helper()
	key := generateECKey(t)
	cert := selfSignedCert(t, key)
	pkcs8Key, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}

	ks := keystore.New()
	err = ks.SetPrivateKeyEntry("server", keystore.PrivateKeyEntry{
		CreationTime:     time.Now(),
		PrivateKey:       pkcs8Key,
		CertificateChain: []keystore.Certificate{{Type: "X.509", Content: cert.Raw}},
	}, []byte(password))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := ks.Store(&buf, []byte(password)); err != nil {
		t.Fatal(err)
	}
	return key, buf.Bytes()
}

func TestExtractKey_PKCS12(t *testing.T) {
	t.Parallel()

	key, data := buildPKCS12(t, "changeit")
	extracted, err := ExtractKey(data, ContainerPasswords(nil))
	if err != nil {
		t.Fatalf("ExtractKey: %v", err)
	}
	if extracted.Container != "PKCS12" {
		t.Errorf("container: got %s, want PKCS12", extracted.Container)
	}
	parsed, err := x509.ParsePKCS8PrivateKey(extracted.PKCS8)
	if err != nil {
		t.Fatalf("extracted key is not PKCS#8: %v", err)
	}
	if !key.Equal(parsed.(*ecdsa.PrivateKey)) {
		t.Error("extracted key differs from the original")
	}
}

func TestExtractKey_PKCS12_NonDefaultPassword(t *testing.T) {
	t.Parallel()

	_, data := buildPKCS12(t, "storepass")

	if _, err := ExtractKey(data, ContainerPasswords(nil)); err == nil {
		t.Fatal("expected failure without the container password")
	}
	if _, err := ExtractKey(data, ContainerPasswords([]string{"storepass"})); err != nil {
		t.Fatalf("ExtractKey with supplied password: %v", err)
	}
}

func TestExtractKey_JKS(t *testing.T) {
	t.Parallel()

	key, data := buildJKS(t, "changeit")
	extracted, err := ExtractKey(data, ContainerPasswords(nil))
	if err != nil {
		t.Fatalf("ExtractKey: %v", err)
	}
	if extracted.Container != "JKS" {
		t.Errorf("container: got %s, want JKS", extracted.Container)
	}
	parsed, err := x509.ParsePKCS8PrivateKey(extracted.PKCS8)
	if err != nil {
		t.Fatalf("extracted key is not PKCS#8: %v", err)
	}
	if !key.Equal(parsed.(*ecdsa.PrivateKey)) {
		t.Error("extracted key differs from the original")
	}
}

func TestExtractKey_OpenSSH(t *testing.T) {
	t.Parallel()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "test key")
	if err != nil {
		t.Fatal(err)
	}
	data := pem.EncodeToMemory(block)

	extracted, err := ExtractKey(data, ContainerPasswords(nil))
	if err != nil {
		t.Fatalf("ExtractKey: %v", err)
	}
	if extracted.Container != "OPENSSH" {
		t.Errorf("container: got %s, want OPENSSH", extracted.Container)
	}
	parsed, err := x509.ParsePKCS8PrivateKey(extracted.PKCS8)
	if err != nil {
		t.Fatalf("extracted key is not PKCS#8: %v", err)
	}
	edParsed, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		t.Fatalf("extracted key has type %T, want ed25519.PrivateKey", parsed)
	}
	if !edParsed.Public().(ed25519.PublicKey).Equal(pub) {
		t.Error("extracted key differs from the original")
	}
}

func TestExtractKey_OpenSSH_Encrypted(t *testing.T) {
	t.Parallel()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	block, err := ssh.MarshalPrivateKeyWithPassphrase(priv, "test key", []byte("sshpass"))
	if err != nil {
		t.Fatal(err)
	}
	data := pem.EncodeToMemory(block)

	if _, err := ExtractKey(data, ContainerPasswords(nil)); err == nil {
		t.Fatal("expected failure without the passphrase")
	}
	extracted, err := ExtractKey(data, ContainerPasswords([]string{"sshpass"}))
	if err != nil {
		t.Fatalf("ExtractKey with passphrase: %v", err)
	}
	if extracted.Container != "OPENSSH" {
		t.Errorf("container: got %s, want OPENSSH", extracted.Container)
	}
}

func TestExtractKey_Unrecognized(t *testing.T) {
	t.Parallel()

	if _, err := ExtractKey([]byte("not a container"), ContainerPasswords(nil)); err == nil {
		t.Error("expected error for unrecognized data")
	}
}

func TestExtractKeyFile(t *testing.T) {
	t.Parallel()

	_, data := buildPKCS12(t, "changeit")
	path := writeTempFile(t, "bundle.p12", data)

	extracted, err := ExtractKeyFile(path, ContainerPasswords(nil))
	if err != nil {
		t.Fatalf("ExtractKeyFile: %v", err)
	}
	if extracted.Container != "PKCS12" {
		t.Errorf("container: got %s, want PKCS12", extracted.Container)
	}

	if _, err := ExtractKeyFile("/nonexistent/bundle.p12", ContainerPasswords(nil)); err == nil {
		t.Error("expected error for missing file")
	}
}
