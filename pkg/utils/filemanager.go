// =============================================================================
// File Converter - File Manager Utility
// =============================================================================
//
// This module provides the file handling done around a conversion:
//   - Output file naming
//   - Atomic output writes
//
// OUTPUT NAMING:
//   The output file sits next to the input file and is named after the
//   lowercase format tags:
//     data/people.csv  (csv -> json)  ->  data/csv-to-json.json
//
// ATOMIC WRITES:
//   Output is written to a uniquely named temporary file in the target
//   directory, synced, then renamed over the target. A failed conversion or
//   write never leaves a partial output file behind.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ginjaninja78/file-converter/internal/types"
)

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputFileName returns "{from}-to-{to}.{to}" using the formats' extensions.
//
// EXAMPLE:
//   from: CSV, to: JSON
//   output: "csv-to-json.json"
func OutputFileName(from, to types.Format) string {
	return fmt.Sprintf("%s-to-%s.%s", from.Extension(), to.Extension(), to.Extension())
}

// OutputPath places OutputFileName in the input file's directory.
func OutputPath(inputPath string, from, to types.Format) string {
	return filepath.Join(filepath.Dir(inputPath), OutputFileName(from, to))
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic replaces path with data.
//
// PARAMETERS:
//   - path: The destination file. Its directory must exist.
//   - data: The complete file content.
//
// RETURNS:
//   - An error if any step fails; the temporary file is removed.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))

	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = file.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}

