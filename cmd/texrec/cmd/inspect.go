/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/ssargent/texturedata/pkg/codec"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <document>",
	Short: "Print a document's fields and decode status",
	Long: `Print the persisted fields of a texture document, whether its payload
decodes, the resulting texture's ownership and the sprite built over it.

Example:
  texrec inspect icon.texframe`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		doc, err := codec.Unmarshal(data, container.RecordOptions()...)
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}
		return inspectDocument(cmd.OutOrStdout(), doc)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// inspectDocument writes a report of doc. It decodes the texture, so it must
// run before anything else reads the record.
func inspectDocument(w io.Writer, doc *codec.Document) error {
	r := doc.Record
	d := r.Data()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Document:\t%s\n", doc.Format)
	if doc.Format == codec.FormatFrame {
		fmt.Fprintf(tw, "Name:\t%s\n", doc.Name)
		fmt.Fprintf(tw, "Written:\t%s\n", doc.Time.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(tw, "Size:\t%dx%d\n", d.Size.X, d.Size.Y)
	fmt.Fprintf(tw, "Texture format:\t%s\n", d.TextureFormat)
	fmt.Fprintf(tw, "Mip count:\t%d\n", d.MipCount)
	fmt.Fprintf(tw, "Linear:\t%t\n", d.Linear)
	if d.PNGData == nil || *d.PNGData == "" {
		fmt.Fprintf(tw, "Payload:\tnone (blank on read)\n")
	} else {
		fmt.Fprintf(tw, "Payload:\t%d bytes base64\n", len(*d.PNGData))
	}

	tex := r.Texture()
	if err := r.LastDecodeError(); err != nil {
		fmt.Fprintf(tw, "Decode:\tfailed, blank substituted: %v\n", err)
	} else {
		fmt.Fprintf(tw, "Decode:\tok\n")
	}
	fmt.Fprintf(tw, "Ownership:\t%s\n", r.Ownership())
	fmt.Fprintf(tw, "Texture:\t%dx%d %s, %d levels\n", tex.Width(), tex.Height(), tex.Format(), tex.MipCount())

	s := r.Sprite()
	rect, pivot := s.Rect(), s.Pivot()
	fmt.Fprintf(tw, "Sprite rect:\tx=%g y=%g w=%g h=%g\n", rect.X, rect.Y, rect.Width, rect.Height)
	fmt.Fprintf(tw, "Sprite pivot:\tx=%g y=%g\n", pivot.X, pivot.Y)

	return tw.Flush()
}
