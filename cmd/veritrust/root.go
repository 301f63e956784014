// veritrust is the operator CLI: offline proof hashing and verification, and
// ledger record lookup.
//
// Usage:
//
//	veritrust proof hash   --owner=<id> --kind=<kind> --fields='<json>' | -f <file>
//	veritrust proof verify --owner=<id> --kind=<kind> --fields='<json>' --proof=<0x...>
//	veritrust records      --owner=<id>
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "veritrust",
	Short: "Inspect and verify VeriTrust ledger proofs",
	Long: "veritrust recomputes proof hashes exactly as the API does and reads\n" +
		"ledger records straight from the configured backend.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(proofCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
