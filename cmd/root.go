// =============================================================================
// File Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (converter)
//   ├── convertCmd (converter convert)
//   ├── formatsCmd (converter formats)
//   └── versionCmd (converter version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --log-json)
//   2. Loading the YAML configuration before any subcommand runs
//   3. Setting up logging on stderr
//
// EXIT STATUS:
//   0 on success, including a requested pair that is not supported
//   1 on any other failure, with a one-line message on stderr
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/file-converter/internal/config"
	apperrors "github.com/ginjaninja78/file-converter/internal/errors"
	"github.com/ginjaninja78/file-converter/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// logJSON switches log output to JSON lines.
var logJSON bool

// appConfig and appLogger are set up by the root command before any
// subcommand runs.
var (
	appConfig *config.Config
	appLogger logger.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "converter",
	Short: "File Converter - Convert files between JSON, XML, CSV and XLSX",
	Long: `File Converter reads a JSON, XML, CSV or XLSX file and writes its content in
another of these formats. The output file is written next to the input file
and named after the two formats, for example csv-to-json.json.

Tabular targets (CSV, XLSX) need an array of flat records. The first record
defines the columns; fields missing from it are dropped.

Example Usage:
  converter convert --input_type csv --filepath data/people.csv --output_type json
  converter convert --input_type json --filepath people.json --output_type xml --dry-run
  converter formats                    # List supported conversions`,

	// Errors are reported once by Execute.
	SilenceErrors: true,
	SilenceUsage:  true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI with the process arguments and exits with its status.
// This is called by main.main().
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the root command and maps its outcome to an exit status.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, apperrors.UserFriendlyError(err))
		return 1
	}
	return 0
}

// initApp loads the configuration and builds the logger.
// The default config path may be absent; an explicit --config must exist.
func initApp(cmd *cobra.Command) error {
	required := cmd.Flags().Changed("config")
	cfg, err := config.Load(cfgFile, required)
	if err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logCfg.Level = logger.LogLevel(cfg.Log.Level)
	logCfg.JSON = cfg.Log.JSON || logJSON
	if verbose {
		logCfg.Level = logger.DebugLevel
	}

	appConfig = cfg
	appLogger = logger.NewLogger(logCfg)
	appLogger.Debug("Configuration loaded", "path", cfgFile, "explicit", required)
	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// --config flag: Path to the YAML configuration file.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// --log-json flag: Emit log lines as JSON.
	rootCmd.PersistentFlags().BoolVar(
		&logJSON,
		"log-json",
		false,
		"Write log output as JSON",
	)
}
