package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"perfeq.dev/pkg/perfeq/internal/adapter"
	m "perfeq.dev/pkg/perfeq/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [report.csv]",
		Short: "View a previously generated CSV report",
		Long: `View a CSV report written by a multi-file analysis. Without an argument the
report in the output directory is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.View(cmd.Context(), reportPath(args))
		},
	}

	return cmd
}

func reportPath(args []string) m.Path {
	if len(args) == 1 {
		return m.Path(args[0])
	}

	return m.Path(filepath.Join(viper.GetString(outputFlagName), adapter.ReportFileName))
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
