package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ssargent/texturedata/pkg/codec"
)

// readInput reads path, or stdin when path is "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or stdout when path is empty or "-"
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// documentFormat picks the output encoding: the flag when given, then the
// output file extension, then the configured default.
func documentFormat(flag, outputPath, configured string) (codec.Format, error) {
	if flag != "" {
		return codec.ParseFormat(flag)
	}
	if ext := strings.TrimPrefix(filepath.Ext(outputPath), "."); ext != "" {
		if f, err := codec.ParseFormat(ext); err == nil {
			return f, nil
		}
		if "."+ext == codec.FormatFrame.Extension() {
			return codec.FormatFrame, nil
		}
	}
	return codec.ParseFormat(configured)
}
