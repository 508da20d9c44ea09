/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/texturedata/pkg/codec"
	"github.com/ssargent/texturedata/pkg/di"
)

// decodeResult is a materialized document
type decodeResult struct {
	Document *codec.Document
	PNG      []byte
	// Fallback is the decode error when a blank texture was substituted
	Fallback error
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <document>",
	Short: "Materialize a document's texture and write it as PNG",
	Long: `Read a texture document (YAML, JSON or frame, detected automatically),
decode its texture and write the base level as a PNG image.

A payload that cannot be decoded is replaced by a blank texture of the
document's size; the substitution is reported on stderr. Use --strict to
fail instead.

Examples:
  texrec decode icon.yaml -o icon.png
  cat icon.texframe | texrec decode - > icon.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		strict, _ := cmd.Flags().GetBool("strict")

		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}

		res, err := decodeDocument(container, data)
		if err != nil {
			return err
		}
		if res.Fallback != nil {
			if strict {
				return fmt.Errorf("payload could not be decoded: %w", res.Fallback)
			}
			cmd.PrintErrf("Warning: payload could not be decoded, wrote a blank texture: %v\n", res.Fallback)
		}
		return writeOutput(cmd, output, res.PNG)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringP("output", "o", "", "Output PNG path (default stdout)")
	decodeCmd.Flags().Bool("strict", false, "Fail when the payload cannot be decoded")
}

// decodeDocument reads a document and encodes its texture as PNG
func decodeDocument(c *di.Container, data []byte) (*decodeResult, error) {
	doc, err := codec.Unmarshal(data, c.RecordOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	tex := doc.Record.Texture()
	out, err := c.GetDevice().EncodePNG(tex)
	if err != nil {
		return nil, fmt.Errorf("failed to encode texture: %w", err)
	}

	return &decodeResult{
		Document: doc,
		PNG:      out,
		Fallback: doc.Record.LastDecodeError(),
	}, nil
}
