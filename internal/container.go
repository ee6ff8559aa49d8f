package internal

import (
	"bytes"
	"crypto"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/pavlo-v-chernykh/keystore-go/v4"
	"golang.org/x/crypto/ssh"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"
)

// ExtractedKey is a private key pulled out of a multi-entry container,
// normalized to an unencrypted PKCS#8 document ready for the discovery
// engine.
type ExtractedKey struct {
	// Container names the source container kind: PKCS12, JKS, or OPENSSH.
	Container string
	// PKCS8 is the DER-encoded PrivateKeyInfo.
	PKCS8 []byte
}

// ExtractKeyFile reads a container file and extracts its private key.
func ExtractKeyFile(path string, passwords []string) (*ExtractedKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	key, err := ExtractKey(data, passwords)
	if err != nil {
		return nil, fmt.Errorf("extracting key from %s: %w", path, err)
	}
	return key, nil
}

// ExtractKey attempts to pull a private key out of raw container data,
// trying PKCS#12, then JKS, then OpenSSH. Each password is tried in order
// for the encrypted container kinds. The extracted key is re-encoded as
// PKCS#8 DER regardless of how the container stored it.
func ExtractKey(data []byte, passwords []string) (*ExtractedKey, error) {
	for _, pw := range passwords {
		if key, _, _, err := gopkcs12.DecodeChain(data, pw); err == nil {
			return normalizeExtracted("PKCS12", key)
		}
	}

	if key, err := extractJKSKey(data, passwords); err == nil {
		return normalizeExtracted("JKS", key)
	}

	if key, err := extractOpenSSHKey(data, passwords); err == nil {
		return normalizeExtracted("OPENSSH", key)
	}

	return nil, errors.New("no private key found: not PKCS#12, JKS, or OpenSSH (or wrong password)")
}

// extractJKSKey loads a Java KeyStore and returns the first private key
// entry. The same password is tried for the store and each entry, the
// standard Java convention.
func extractJKSKey(data []byte, passwords []string) (crypto.PrivateKey, error) {
	for _, pw := range passwords {
		ks := keystore.New()
		if err := ks.Load(bytes.NewReader(data), []byte(pw)); err != nil {
			continue
		}
		for _, alias := range ks.Aliases() {
			if !ks.IsPrivateKeyEntry(alias) {
				continue
			}
			entry, err := ks.GetPrivateKeyEntry(alias, []byte(pw))
			if err != nil {
				continue
			}
			key, err := x509.ParsePKCS8PrivateKey(entry.PrivateKey)
			if err != nil {
				continue
			}
			return key, nil
		}
	}
	return nil, errors.New("JKS contains no usable private key entry")
}

// extractOpenSSHKey parses an OPENSSH PRIVATE KEY block, which uses a
// proprietary encoding handled by x/crypto/ssh. Unencrypted parse is tried
// first, then each non-empty password.
func extractOpenSSHKey(data []byte, passwords []string) (crypto.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "OPENSSH PRIVATE KEY" {
		return nil, errors.New("not an OpenSSH private key")
	}
	if key, err := ssh.ParseRawPrivateKey(data); err == nil {
		return key, nil
	}
	for _, pw := range passwords {
		if pw == "" {
			continue
		}
		if key, err := ssh.ParseRawPrivateKeyWithPassphrase(data, []byte(pw)); err == nil {
			return key, nil
		}
	}
	return nil, errors.New("parsing OpenSSH private key with any provided password")
}

// normalizeExtracted converts a parsed private key to PKCS#8 DER. Ed25519
// keys come back from ssh.ParseRawPrivateKey as pointers and are
// dereferenced so downstream handling sees one canonical form.
func normalizeExtracted(container string, key crypto.PrivateKey) (*ExtractedKey, error) {
	if ptr, ok := key.(*ed25519.PrivateKey); ok {
		key = *ptr
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("re-encoding %s key to PKCS#8: %w", container, err)
	}
	return &ExtractedKey{Container: container, PKCS8: der}, nil
}
