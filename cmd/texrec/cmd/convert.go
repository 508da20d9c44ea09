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

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <document>",
	Short: "Re-encode a document in another format",
	Long: `Read a texture document and write the same record as YAML, JSON or a frame.

Frames keep their name unless --name is given. With --fill a missing payload
is replaced by a blank image before writing.

Examples:
  texrec convert icon.yaml --to frame -o icon.texframe
  texrec convert icon.texframe --to json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		name, _ := cmd.Flags().GetString("name")
		fill, _ := cmd.Flags().GetBool("fill")
		output, _ := cmd.Flags().GetString("output")

		format, err := documentFormat(to, output, container.GetConfig().Document.Format)
		if err != nil {
			return err
		}
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		out, err := convertDocument(container, data, format, name, fill)
		if err != nil {
			return err
		}
		return writeOutput(cmd, output, out)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().String("to", "", "Target format: yaml, json or frame")
	convertCmd.Flags().StringP("output", "o", "", "Output document path (default stdout)")
	convertCmd.Flags().String("name", "", "Frame name (default the source frame's name)")
	convertCmd.Flags().Bool("fill", false, "Fill a missing payload with a blank image")
}

// convertDocument decodes data and marshals its record as format
func convertDocument(c *di.Container, data []byte, format codec.Format, name string, fill bool) ([]byte, error) {
	doc, err := codec.Unmarshal(data, c.RecordOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if name == "" {
		name = doc.Name
	}
	if fill {
		doc.Record.EncodedPayload()
	}
	out, err := codec.Marshal(format, name, doc.Record)
	if err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return out, nil
}
