package internal

import (
	"fmt"
	"log/slog"

	"github.com/sensiblebit/keykit"
)

// ConvertRequest is a file-to-file conversion: input and output locations
// plus the target fields as command-line/batch strings. Empty target fields
// default from the discovered key.
type ConvertRequest struct {
	In          string
	Out         string
	Format      string
	Encoding    string
	Algorithm   string
	KeyType     string
	KeyID       string
	InPassword  string // pass:/file: spec
	OutPassword string // pass:/file: spec
}

// buildTarget parses the request's string fields into a conversion target.
func buildTarget(req ConvertRequest) (keykit.Target, error) {
	var target keykit.Target
	var err error
	if req.Format != "" {
		if target.Format, err = keykit.ParseFormat(req.Format); err != nil {
			return target, err
		}
	}
	if req.Encoding != "" {
		if target.Encoding, err = keykit.ParseEncoding(req.Encoding); err != nil {
			return target, err
		}
	}
	if req.Algorithm != "" {
		if target.Algorithm, err = keykit.ParseAlgorithm(req.Algorithm); err != nil {
			return target, err
		}
	}
	if req.KeyType != "" {
		if target.KeyType, err = keykit.ParseKeyType(req.KeyType); err != nil {
			return target, err
		}
	}
	target.KeyID = req.KeyID
	if target.Password, err = ParsePasswordSpec(req.OutPassword); err != nil {
		return target, err
	}
	return target, nil
}

// RunConversion executes one discover-then-convert pipeline: read the whole
// input, classify it, re-serialize to the target, write the whole output.
// Nothing is written when any stage fails.
func RunConversion(req ConvertRequest) error {
	target, err := buildTarget(req)
	if err != nil {
		return err
	}
	inPassword, err := ParsePasswordSpec(req.InPassword)
	if err != nil {
		return err
	}

	data, err := ReadInput(req.In)
	if err != nil {
		return err
	}

	desc, err := keykit.Discover(data, inPassword)
	if err != nil {
		return fmt.Errorf("classifying input: %w", err)
	}
	defer desc.Close()
	slog.Debug("classified input key",
		"algorithm", desc.Algorithm(), "format", desc.Format(),
		"encoding", desc.Encoding(), "type", desc.KeyType())

	resolved := keykit.ResolveTarget(desc, target)
	out, err := keykit.Convert(desc, target)
	if err != nil {
		return err
	}

	return WriteOutput(req.Out, out, resolved.Encoding == keykit.EncodingDER)
}
