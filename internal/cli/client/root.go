package client

import (
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the geomed client command tree.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "geomed",
		Short: "GeoMed CLI - predict the country of healthcare professionals",
		Long: `GeoMed CLI talks to a GeoMed server to run predictions and read the search history.

Environment variables:
  GEOMED_API_URL   API base URL (default: http://localhost:8080)`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")

	rootCmd.AddCommand(InitCmd())
	rootCmd.AddCommand(PredictCmd())
	rootCmd.AddCommand(HistoryCmd())
	rootCmd.AddCommand(GetCmd())
	rootCmd.AddCommand(UploadCmd())
	rootCmd.AddCommand(ExportCmd())

	return rootCmd
}
