// =============================================================================
// File Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the File Converter CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   converter convert   - Convert one file to another format
//   converter formats   - List supported conversions
//   converter version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Canonical model, format codecs and the conversion core
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/file-converter/cmd"
)

func main() {
	cmd.Execute()
}
