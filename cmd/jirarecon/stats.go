package main

import (
	"github.com/spf13/cobra"

	"jirarecon/pkg/logger"
	"jirarecon/pkg/report"
	"jirarecon/pkg/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats <subdomain>",
	Short: "Show statistics of a previous run",
	Long: `Count the filter and dashboard files and the user entries a previous run
left in the output directory. Nothing is fetched. Missing files count as zero.`,
	Example: `  jirarecon stats acme
  jirarecon stats acme --output ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	company, err := parseCompany(args[0])
	if err != nil {
		return err
	}

	store, err := storage.NewManager(cfg.Output.BaseDirectory)
	if err != nil {
		return err
	}

	report.RenderStats(cmd.OutOrStdout(), report.CollectStats(store, company, logger.GetLogger()))
	return nil
}
