package internal

import (
	"encoding/json"
	"fmt"

	"github.com/sensiblebit/keykit"
)

// ShowResult holds the presentable metadata of a classified key.
type ShowResult struct {
	KeyType    string `json:"key_type"`
	Encoding   string `json:"encoding"`
	Format     string `json:"format"`
	Algorithm  string `json:"algorithm"`
	KeyLength  int    `json:"key_length,omitempty"`
	OID        string `json:"oid,omitempty"`
	OIDName    string `json:"oid_name,omitempty"`
	Parameters string `json:"parameters,omitempty"`
}

// BuildShowResult extracts displayable fields from a descriptor. Key
// material is deliberately not represented.
func BuildShowResult(desc *keykit.KeyDescriptor) ShowResult {
	result := ShowResult{
		KeyType:   string(desc.KeyType()),
		Encoding:  string(desc.Encoding()),
		Format:    string(desc.Format()),
		Algorithm: string(desc.Algorithm()),
		KeyLength: desc.KeyLength(),
	}
	if id, ok := desc.AlgorithmID(); ok {
		result.OID = id.OID.String()
		result.OIDName = keykit.OIDName(id.OID)
		if curve, ok := id.NamedCurve(); ok {
			result.Parameters = fmt.Sprintf("%s (%s)", keykit.OIDName(curve), curve)
		}
	}
	return result
}

// FormatShowResult renders a result as text (the descriptor's own rendering)
// or JSON.
func FormatShowResult(desc *keykit.KeyDescriptor, format string) (string, error) {
	switch format {
	case "", "text":
		return desc.String(), nil
	case "json":
		out, err := json.MarshalIndent(BuildShowResult(desc), "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding JSON: %w", err)
		}
		return string(out) + "\n", nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}
