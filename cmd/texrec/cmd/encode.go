/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/spf13/cobra"
	"github.com/ssargent/texturedata/pkg/codec"
	"github.com/ssargent/texturedata/pkg/di"
	"github.com/ssargent/texturedata/pkg/graphics"
	"github.com/ssargent/texturedata/pkg/texrecord"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// encodeOptions controls how an image file becomes a texture record
type encodeOptions struct {
	Format      graphics.Format
	Filter      graphics.FilterMode
	MipCount    int
	NonReadable bool
	Name        string
	DocFormat   codec.Format
}

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <image>",
	Short: "Build a texture record from an image file",
	Long: `Build a texture from an image file (PNG, JPEG, GIF, BMP or WebP), assign
it to a texture record and write the record as a document.

Texture settings default to the texture section of the config file.

Examples:
  texrec encode icon.png -o icon.yaml
  texrec encode atlas.png --format RGB24 --filter point --mips 0 -o atlas.texframe
  texrec encode normal.png --non-readable --doc-format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		opts, err := encodeOptionsFromFlags(cmd, container, output)
		if err != nil {
			return err
		}

		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to decode image %s: %w", args[0], err)
		}

		out, err := encodeImage(container, img, opts)
		if err != nil {
			return err
		}
		return writeOutput(cmd, output, out)
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringP("output", "o", "", "Output document path (default stdout)")
	encodeCmd.Flags().String("doc-format", "", "Document format: yaml, json or frame")
	encodeCmd.Flags().String("format", "", "Texture format, by name or number")
	encodeCmd.Flags().String("filter", "", "Filter mode: point, bilinear or trilinear")
	encodeCmd.Flags().Int("mips", 0, "Mip count; negative builds the full chain")
	encodeCmd.Flags().Bool("non-readable", false, "Drop CPU access before assignment so the record copies the texture")
	encodeCmd.Flags().String("name", "", "Frame name (default a fresh KSUID)")
}

// encodeOptionsFromFlags merges the encode flags over the configured texture defaults
func encodeOptionsFromFlags(cmd *cobra.Command, c *di.Container, output string) (encodeOptions, error) {
	format, filter, mips, err := c.TextureDefaults()
	if err != nil {
		return encodeOptions{}, err
	}
	opts := encodeOptions{Format: format, Filter: filter, MipCount: mips}

	if cmd.Flags().Changed("format") {
		s, _ := cmd.Flags().GetString("format")
		if opts.Format, err = graphics.ParseFormat(s); err != nil {
			return encodeOptions{}, err
		}
	}
	if cmd.Flags().Changed("filter") {
		s, _ := cmd.Flags().GetString("filter")
		if opts.Filter, err = graphics.ParseFilterMode(s); err != nil {
			return encodeOptions{}, err
		}
	}
	if cmd.Flags().Changed("mips") {
		opts.MipCount, _ = cmd.Flags().GetInt("mips")
	}
	opts.NonReadable, _ = cmd.Flags().GetBool("non-readable")
	opts.Name, _ = cmd.Flags().GetString("name")

	docFlag, _ := cmd.Flags().GetString("doc-format")
	if opts.DocFormat, err = documentFormat(docFlag, output, c.GetConfig().Document.Format); err != nil {
		return encodeOptions{}, err
	}
	return opts, nil
}

// encodeImage assigns img to a new record and marshals the record
func encodeImage(c *di.Container, img image.Image, opts encodeOptions) ([]byte, error) {
	tex := c.GetDevice().NewTextureFromImage(img, opts.Format, opts.MipCount, false)
	tex.SetFilterMode(opts.Filter)
	// rebuild mips with the chosen filter
	tex.Apply(true, opts.NonReadable)

	r := texrecord.New(c.RecordOptions()...)
	r.SetTexture(tex)
	if r.Ownership() == texrecord.OwnershipNone {
		return nil, fmt.Errorf("failed to assign texture")
	}

	out, err := codec.Marshal(opts.DocFormat, opts.Name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return out, nil
}
