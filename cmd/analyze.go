package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"perfeq.dev/pkg/perfeq/internal/domain"
	m "perfeq.dev/pkg/perfeq/internal/model"
)

var parallelFlag int

// analyzeCmd represents the analyze command.
var analyzeCmd = newAnalyzeCmd()

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze source files",
		Long:  analyzeLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := workflow.Analyze(cmd.Context(), domain.AnalyzeArgs{
				Paths:   parsePaths(args),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Reports: m.Path(viper.GetString(outputFlagName)),
				Threads: viper.GetInt(parallelConfigKey),
			})

			return err
		},
	}

	configureAnalyzeFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func configureAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel tool workers (0 uses every CPU)")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)
}
