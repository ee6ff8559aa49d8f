package main

import (
	"fmt"

	"github.com/sensiblebit/keykit/internal"
	"github.com/spf13/cobra"
)

var (
	scanDBPath string
	scanInPass string
	scanList   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan and catalog key files",
	Long: `Walk a file or directory tree, classify every file with the discovery
engine, and catalog the keys found in a SQLite database. Only metadata and a
content fingerprint are stored, never key material.`,
	Example: `  keykit scan ./secrets
  keykit scan ./secrets --db keys.db
  keykit scan ./secrets --inpass pass:secret`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanDBPath, "db", "d", "", "SQLite database path (default: in-memory)")
	scanCmd.Flags().StringVar(&scanInPass, "inpass", "", "Password for encrypted keys (pass:<value> or file:<path>)")
	scanCmd.Flags().BoolVar(&scanList, "list", false, "List cataloged keys after the scan")

	registerCompletion(scanCmd, completionInput{flagName: "db", completeFunc: fileCompletion})
}

func runScan(cmd *cobra.Command, args []string) error {
	password, err := internal.ParsePasswordSpec(scanInPass)
	if err != nil {
		return err
	}

	db, err := internal.NewDB(scanDBPath)
	if err != nil {
		return fmt.Errorf("initializing catalog: %w", err)
	}
	defer db.Close()

	summary, err := internal.ScanPath(db, args[0], password)
	if err != nil {
		return err
	}
	fmt.Printf("Scanned %d files: %d keys cataloged, %d skipped\n", summary.Scanned, summary.Keys, summary.Skipped)

	if scanList {
		records, err := db.GetAllKeys()
		if err != nil {
			return err
		}
		for _, rec := range records {
			fmt.Printf("%s  %s %s %s/%s", rec.Path, rec.KeyType, rec.Algorithm, rec.Format, rec.Encoding)
			if rec.BitLength > 0 {
				fmt.Printf(" %d bits", rec.BitLength)
			}
			fmt.Printf("  %s\n", rec.Fingerprint[:16])
		}
	}
	return nil
}
