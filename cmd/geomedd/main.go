package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/geomed/internal/cli"
	"github.com/cloo-solutions/geomed/internal/cli/admin"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	admin.Version = version
	rootCmd := &cobra.Command{
		Use:     "geomedd",
		Short:   "GeoMed daemon",
		Long:    "GeoMed daemon for running the prediction API and exporting the search history",
		Version: version,
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.ExportCmd())
	rootCmd.AddCommand(admin.TemplateCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if handled, err := cli.HandleHelpJSON(rootCmd, os.Args[1:], os.Stdout); handled {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating schema: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
