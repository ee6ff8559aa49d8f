package internal

import (
	"fmt"
	"os"
	"strings"
)

// ParsePasswordSpec resolves an openssl-style password argument:
//
//	pass:<value>  the literal password
//	file:<path>   the first line of the named file
//
// An empty spec means no password and resolves to nil. Any other form is
// rejected so a bare password is never mistaken for a file path.
func ParsePasswordSpec(spec string) ([]byte, error) {
	if spec == "" {
		return nil, nil
	}
	mode, value, found := strings.Cut(spec, ":")
	if !found {
		return nil, fmt.Errorf("bad password argument %q: expected pass:<value> or file:<path>", spec)
	}
	switch strings.ToLower(mode) {
	case "pass":
		return []byte(value), nil
	case "file":
		return readPasswordFile(value)
	default:
		return nil, fmt.Errorf("bad password argument: unknown mode %q", mode)
	}
}

// readPasswordFile reads a password from a file, taking the first line and
// trimming the trailing newline most editors append.
func readPasswordFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading password file: %w", err)
	}
	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return nil, fmt.Errorf("password file %s is empty", path)
	}
	return []byte(line), nil
}

// ContainerPasswords merges candidate container passwords with the defaults
// tried for PKCS#12 and JKS files, removing duplicates while preserving
// order.
func ContainerPasswords(extra []string) []string {
	all := append([]string{"", "password", "changeit", "keypassword"}, extra...)
	seen := make(map[string]bool, len(all))
	result := make([]string, 0, len(all))
	for _, p := range all {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}
	return result
}
