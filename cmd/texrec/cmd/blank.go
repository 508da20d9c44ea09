/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/texturedata/pkg/codec"
	"github.com/ssargent/texturedata/pkg/di"
	"github.com/ssargent/texturedata/pkg/graphics"
	"github.com/ssargent/texturedata/pkg/texrecord"
)

// blankCmd represents the blank command
var blankCmd = &cobra.Command{
	Use:   "blank",
	Short: "Write a record holding a blank texture",
	Long: `Write a default texture record of the given size with its payload filled
by a blank image in the configured blank color.

Example:
  texrec blank --width 64 --height 64 -o placeholder.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		name, _ := cmd.Flags().GetString("name")
		output, _ := cmd.Flags().GetString("output")
		docFlag, _ := cmd.Flags().GetString("doc-format")

		format, err := documentFormat(docFlag, output, container.GetConfig().Document.Format)
		if err != nil {
			return err
		}
		out, err := blankDocument(container, width, height, format, name)
		if err != nil {
			return err
		}
		return writeOutput(cmd, output, out)
	},
}

func init() {
	rootCmd.AddCommand(blankCmd)

	blankCmd.Flags().Int("width", 1, "Texture width in pixels")
	blankCmd.Flags().Int("height", 1, "Texture height in pixels")
	blankCmd.Flags().StringP("output", "o", "", "Output document path (default stdout)")
	blankCmd.Flags().String("doc-format", "", "Document format: yaml, json or frame")
	blankCmd.Flags().String("name", "", "Frame name (default a fresh KSUID)")
}

// blankDocument marshals a default record of the given size with its payload forced
func blankDocument(c *di.Container, width, height int, format codec.Format, name string) ([]byte, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("size must be positive, got %dx%d", width, height)
	}
	r := texrecord.FromFields(texrecord.Size{X: width, Y: height}, graphics.DefaultFormat, 0, false, "", c.RecordOptions()...)
	if r.EncodedPayload() == "" {
		return nil, fmt.Errorf("failed to encode blank payload")
	}
	out, err := codec.Marshal(format, name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return out, nil
}
