package client

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func ExportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the search history as a spreadsheet or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				if config, err := LoadGlobalConfig(); err == nil && config != nil && config.ExportFormat != "" {
					format = config.ExportFormat
				}
			}
			path, ext, err := exportRoute(format)
			if err != nil {
				return err
			}

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			dl, err := api.Download(context.Background(), path)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(dl.Data)
				return err
			}
			if output == "" {
				output = dl.Filename
			}
			if output == "" {
				output = fmt.Sprintf("geomed_hcp_history_%s.%s", time.Now().UTC().Format("20060102_150405"), ext)
			}
			if err := os.WriteFile(output, dl.Data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			return printResult(cmd, map[string]interface{}{"path": output, "bytes": len(dl.Data)}, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", output, len(dl.Data))
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "Export format (xlsx or csv; default from config, else xlsx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: server-suggested name, - for stdout)")

	return cmd
}
