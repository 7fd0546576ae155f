// Package cmd provides the root command and CLI setup for perfeq.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"perfeq.dev/pkg/perfeq/internal/adapter"
	"perfeq.dev/pkg/perfeq/internal/controller"
	"perfeq.dev/pkg/perfeq/internal/domain"
	m "perfeq.dev/pkg/perfeq/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var toolAdapter adapter.ToolRunnerAdapter
var orchestrator domain.Orchestrator
var decoder domain.Decoder
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var logFileFlag string
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	toolAdapter = adapter.NewLocalToolRunnerAdapter(toolCommands(), toolTimeout())
	orchestrator = domain.NewOrchestrator(toolAdapter)
	decoder = domain.NewDecoder(0)
	workflow = domain.NewWorkflow(
		fsAdapter,
		reportStore,
		ui,
		orchestrator,
		decoder,
	)
}

const pathPatternsHelp = `Paths may be files or directories:
  - ./src          analyze the .py and .c files directly in src
  - ./src/...      recursively analyze src
  - main.py app.c  analyze the given files`

const rootLongDescription = `Perfeq is a source code quality aggregator for Python and C. It runs
pylint, cpplint and naming-check on each file, classifies their
diagnostics as variable, function or formatting warnings and reports
warning ratios per line, variable and function.

` + pathPatternsHelp

const analyzeLongDescription = `Analyze the given paths (default: current directory).

A single file is reported on the console. Several files are written to
perfeq_output.csv in the output directory and summarized in a table.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "perfeq",
		Short: "Source code quality aggregator",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
}

// newRootCmd builds a root command with its persistent flags, without
// subcommands.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for multi-file CSV reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching a gitignore pattern (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default from config)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
