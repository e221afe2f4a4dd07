package admin

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cloo-solutions/geomed/internal/config"
	"github.com/cloo-solutions/geomed/internal/export"
	"github.com/cloo-solutions/geomed/internal/service"
	"github.com/spf13/cobra"
)

// ExportCmd writes the stored history to a local file without going through the API.
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export search history",
		Long:  "Export the full search history, most recent first, as an .xlsx or .csv file",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}

	cmd.Flags().StringP("format", "f", "xlsx", "Export format (xlsx or csv)")
	cmd.Flags().StringP("output", "o", "", "Output path (default: timestamped name in the current directory, - for stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	repo, closeStore, err := openStore(ctx, cfg, storeOptions{}, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := service.NewExportService(repo, nil).Export(ctx, format)
	if err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}

	if output == "-" {
		return writeTo(cmd.OutOrStdout(), res.Data)
	}
	if output == "" {
		output = res.Filename
	}
	if err := writeFile(output, res.Data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", res.Records, output)
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeTo(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	return err
}
