package main

import (
	"github.com/sensiblebit/keykit/internal"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "keykit",
	Short: "Asymmetric key inspection and conversion tool",
	Long:  "Identify the container format, encoding, and algorithm of an asymmetric key, and convert it between PKCS#1, PKCS#8, SEC1, and SPKI containers in PEM or DER.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetupLogger(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(batchCmd)
}
