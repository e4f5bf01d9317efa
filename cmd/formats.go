// =============================================================================
// File Converter - Formats Command
// =============================================================================
//
// This file defines the 'formats' command, which lists every supported
// conversion.
//
// COMMAND USAGE:
//   converter formats
//
// OUTPUT:
//   JSON -> XML
//   JSON -> CSV
//   ...
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/file-converter/internal/converter"
)

// formatsCmd represents the 'formats' command.
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported conversions",
	Run: func(cmd *cobra.Command, args []string) {
		for _, pair := range converter.New(appConfig, appLogger).Pairs() {
			fmt.Fprintln(cmd.OutOrStdout(), pair.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
