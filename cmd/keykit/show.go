package main

import (
	"fmt"

	"github.com/sensiblebit/keykit"
	"github.com/sensiblebit/keykit/internal"
	"github.com/spf13/cobra"
)

var (
	showFormat string
	showInPass string
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Display key type, format, encoding, and algorithm",
	Long:  "Classify a key file (or stdin) and print its metadata without converting it.",
	Example: `  keykit show key.pem
  keykit show key.der --format json
  keykit show encrypted.pem --inpass pass:secret
  cat key.pem | keykit show`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "text", "Output format: text or json")
	showCmd.Flags().StringVar(&showInPass, "inpass", "", "Input password (pass:<value> or file:<path>)")

	registerCompletion(showCmd, completionInput{flagName: "format", completeFunc: fixedCompletion("text", "json")})
}

func runShow(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	password, err := internal.ParsePasswordSpec(showInPass)
	if err != nil {
		return err
	}
	data, err := internal.ReadInput(path)
	if err != nil {
		return err
	}

	desc, err := keykit.Discover(data, password)
	if err != nil {
		return err
	}
	defer desc.Close()

	output, err := internal.FormatShowResult(desc, showFormat)
	if err != nil {
		return err
	}
	fmt.Print(output)
	return nil
}
