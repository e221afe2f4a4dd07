package client

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func UploadCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "upload <file.xlsx>",
		Short: "Run a batch of predictions from a spreadsheet",
		Long: `Uploads an .xlsx or .xls file whose header row carries the import template columns:
  Firstname, Lastname, Email ID, Hospital Affiliation, PubMed Article Title

Rows that fail are reported with their spreadsheet row number; the other rows are stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			switch strings.ToLower(filepath.Ext(path)) {
			case ".xlsx", ".xls":
			default:
				return fmt.Errorf("only Excel files (.xlsx, .xls) are supported: %s", path)
			}

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			var progress ProgressFunc
			if !quiet && !wantsJSON(cmd) {
				progress = func(current, total int64) {
					if total > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "\rUploading... %d%%", current*100/total)
					}
				}
			}

			var report BatchReport
			err = api.UploadFile(context.Background(), "/api/batch-upload", path, progress, &report)
			if progress != nil {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
			if err != nil {
				return err
			}

			return printResult(cmd, report, func() {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Processed %d rows: %d successful, %d failed\n", report.TotalProcessed, report.Successful, report.Failed)
				for _, e := range report.Errors {
					fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Error)
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not show upload progress")

	return cmd
}
