// =============================================================================
// File Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which converts one file.
//
// COMMAND USAGE:
//   converter convert --input_type <fmt> --filepath <path> --output_type <fmt>
//
// FLAGS:
//   --input_type  : Format of the input file (json, xml, csv, xlsx)
//   --filepath    : Path to the input file
//   --output_type : Format to convert to (json, xml, csv, xlsx)
//   --dry-run     : Print the converted content instead of writing a file
//
// PROCESSING PIPELINE:
//   1. Resolve the format pair (unsupported pairs are reported, exit 0)
//   2. Read, reshape and render the input in memory
//   3. Write {input_type}-to-{output_type}.{output_type} next to the input,
//      atomically, so a failure never leaves a partial output file
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/file-converter/internal/converter"
	apperrors "github.com/ginjaninja78/file-converter/internal/errors"
	"github.com/ginjaninja78/file-converter/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputType  string
	filePath   string
	outputType string
	dryRun     bool
)

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a file to another format",
	Long: `The convert command reads the file given by --filepath as --input_type and
writes it as --output_type next to the input file.

Format tags are case-insensitive. Converting a format to itself is not
supported and is reported without writing anything.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the convert command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&inputType, "input_type", "", "Input format (json, xml, csv, xlsx)")
	convertCmd.Flags().StringVar(&filePath, "filepath", "", "Path to the input file")
	convertCmd.Flags().StringVar(&outputType, "output_type", "", "Output format (json, xml, csv, xlsx)")
	convertCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the result to stdout instead of writing a file")

	convertCmd.MarkFlagRequired("input_type")
	convertCmd.MarkFlagRequired("filepath")
	convertCmd.MarkFlagRequired("output_type")
}

// =============================================================================
// CONVERSION
// =============================================================================

// runConvert executes one conversion.
func runConvert(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	conv := converter.New(appConfig, appLogger)

	pair, _, err := conv.Resolve(inputType, outputType)
	if errors.Is(err, apperrors.ErrUnsupportedConversion) {
		fmt.Fprintln(out, err.Error())
		return nil
	}
	if err != nil {
		return err
	}

	result, err := conv.Convert(filePath, inputType, outputType)
	if err != nil {
		appLogger.Debug("Conversion failed", "file", filePath, "kind", apperrors.TypeOf(err), "error", err)
		return err
	}

	if dryRun {
		_, err := out.Write(result)
		return err
	}

	outputPath := utils.OutputPath(filePath, pair.From, pair.To)
	if err := utils.WriteFileAtomic(outputPath, result); err != nil {
		return apperrors.NewIOError("failed to write output file", err)
	}

	appLogger.Info("Wrote output file", "path", outputPath, "bytes", len(result))
	fmt.Fprintf(out, "Successfully converted %s to %s. Output saved to: %s\n", pair.From, pair.To, outputPath)
	return nil
}
