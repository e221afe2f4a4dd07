package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// InitCmd checks that a server answers at --api-url and remembers it.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Point the CLI at a GeoMed server",
		Long:  "Checks the server health endpoint and saves the API URL to the user config file.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
	cmd.Flags().String("export-format", "", "Default format for geomed export (xlsx or csv)")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}
	if err := ValidateAPIURL(api.BaseURL()); err != nil {
		return err
	}
	exportFormat, _ := cmd.Flags().GetString("export-format")
	if exportFormat != "" {
		if _, _, err := exportRoute(exportFormat); err != nil {
			return err
		}
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := api.Get(context.Background(), "/health", &health); err != nil {
		return fmt.Errorf("server at %s is not reachable: %w", api.BaseURL(), err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("server at %s reported status %q", api.BaseURL(), health.Status)
	}

	if _, err := UpdateGlobalConfig(func(c *GlobalConfig) {
		c.APIURL = api.BaseURL()
		if exportFormat != "" {
			c.ExportFormat = exportFormat
		}
	}); err != nil {
		return err
	}

	path, _ := GetConfigPath()
	return printResult(cmd, map[string]string{"api_url": api.BaseURL(), "config": path}, func() {
		fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s\nSaved to %s\n", api.BaseURL(), path)
	})
}
