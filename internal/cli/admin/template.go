package admin

import (
	"bytes"
	"fmt"

	"github.com/cloo-solutions/geomed/internal/spreadsheet"
	"github.com/spf13/cobra"
)

func TemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the batch import template",
		Long:  "Write an .xlsx with the five import columns and one example row",
		Args:  cobra.NoArgs,
		RunE:  runTemplate,
	}

	cmd.Flags().StringP("output", "o", spreadsheet.TemplateFilename, "Output path (- for stdout)")

	return cmd
}

func runTemplate(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	var buf bytes.Buffer
	if err := spreadsheet.WriteTemplate(&buf); err != nil {
		return err
	}

	if output == "-" {
		return writeTo(cmd.OutOrStdout(), buf.Bytes())
	}
	if err := writeFile(output, buf.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Template written to %s\n", output)
	return nil
}
