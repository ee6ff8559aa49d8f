package main

import (
	"encoding/pem"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sensiblebit/keykit"
	"github.com/sensiblebit/keykit/internal"
	"github.com/spf13/cobra"
)

var (
	extractOut       string
	extractEncoding  string
	extractPasswords string
)

var extractCmd = &cobra.Command{
	Use:   "extract <container>",
	Short: "Extract a private key from a PKCS#12, JKS, or OpenSSH container",
	Long: `Pull the private key out of a multi-entry container and write it out as an
unencrypted PKCS#8 document. Container passwords are tried from the common
defaults plus any supplied with --passwords. Feed the result to "keykit
convert" for other container formats.`,
	Example: `  keykit extract bundle.p12 --out key.pem
  keykit extract keystore.jks --passwords storepass --out key.pem
  keykit extract id_ed25519 --out key.pem`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Output file (default: stdout)")
	extractCmd.Flags().StringVar(&extractEncoding, "to-encoding", "pem", "Output encoding: pem or der")
	extractCmd.Flags().StringVarP(&extractPasswords, "passwords", "p", "", "Comma-separated container passwords to try")

	registerCompletion(extractCmd, completionInput{flagName: "to-encoding", completeFunc: fixedCompletion("pem", "der")})
}

func runExtract(cmd *cobra.Command, args []string) error {
	var extra []string
	if extractPasswords != "" {
		extra = strings.Split(extractPasswords, ",")
	}
	passwords := internal.ContainerPasswords(extra)

	extracted, err := internal.ExtractKeyFile(args[0], passwords)
	if err != nil {
		return err
	}

	// Classify the normalized document so a container holding something the
	// engine cannot describe fails loudly instead of emitting mystery bytes.
	desc, err := keykit.Discover(extracted.PKCS8, nil)
	if err != nil {
		return err
	}
	defer desc.Close()
	slog.Info("extracted private key",
		"container", extracted.Container, "algorithm", desc.Algorithm())

	encoding, err := keykit.ParseEncoding(extractEncoding)
	if err != nil {
		return err
	}
	switch encoding {
	case keykit.EncodingDER:
		return internal.WriteOutput(extractOut, extracted.PKCS8, true)
	case keykit.EncodingPEM:
		out := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: extracted.PKCS8})
		return internal.WriteOutput(extractOut, out, false)
	default:
		return fmt.Errorf("unsupported extract encoding %q", extractEncoding)
	}
}
