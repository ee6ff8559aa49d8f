package main

import (
	"github.com/sensiblebit/keykit/internal"
	"github.com/spf13/cobra"
)

var convertReq internal.ConvertRequest

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a key between container formats and encodings",
	Long: `Classify a key and re-serialize it to the requested container format and
encoding. Unset target options default to the key's discovered values, so
converting only the encoding or only the format needs a single flag.`,
	Example: `  keykit convert --in key.pem --out key.der --to-encoding der
  keykit convert --in pkcs1.pem --out pkcs8.pem --to-format pkcs8
  keykit convert --in key.pem --out enc.pem --to-format pkcs8 --outpass pass:secret
  cat key.pem | keykit convert --to-format pkcs8 > out.pem`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertReq.In, "in", "", "Input file (default: stdin)")
	convertCmd.Flags().StringVar(&convertReq.Out, "out", "", "Output file (default: stdout)")
	convertCmd.Flags().StringVar(&convertReq.Format, "to-format", "", "Target container format: pkcs1, pkcs8, spki, or sec1")
	convertCmd.Flags().StringVar(&convertReq.Encoding, "to-encoding", "", "Target encoding: pem or der")
	convertCmd.Flags().StringVar(&convertReq.Algorithm, "alg", "", "Target algorithm, only to pick rsa vs rsassa-pss on re-wrap")
	convertCmd.Flags().StringVar(&convertReq.KeyType, "key-type", "", "Target key type: public or private")
	convertCmd.Flags().StringVar(&convertReq.KeyID, "kid", "", "Key ID carried through to JWK output (unimplemented)")
	convertCmd.Flags().StringVar(&convertReq.InPassword, "inpass", "", "Input password (pass:<value> or file:<path>)")
	convertCmd.Flags().StringVar(&convertReq.OutPassword, "outpass", "", "Output password for encrypted PKCS#8 (pass:<value> or file:<path>)")

	registerCompletion(convertCmd, completionInput{flagName: "to-format", completeFunc: fixedCompletion("pkcs1", "pkcs8", "spki", "sec1")})
	registerCompletion(convertCmd, completionInput{flagName: "to-encoding", completeFunc: fixedCompletion("pem", "der")})
	registerCompletion(convertCmd, completionInput{flagName: "key-type", completeFunc: fixedCompletion("public", "private")})
	registerCompletion(convertCmd, completionInput{flagName: "in", completeFunc: fileCompletion})
	registerCompletion(convertCmd, completionInput{flagName: "out", completeFunc: fileCompletion})
}

func runConvert(cmd *cobra.Command, args []string) error {
	return internal.RunConversion(convertReq)
}
