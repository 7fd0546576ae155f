package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// errConfigExists is returned by init when the configuration file exists.
var errConfigExists = errors.New("configuration file already exists")

// defaultConfig mirrors the keys read through viper.
type defaultConfig struct {
	Version int                 `yaml:"version"`
	Output  string              `yaml:"output"`
	Paths   pathsConfig         `yaml:"paths"`
	Run     runConfig           `yaml:"run"`
	Tools   map[string][]string `yaml:"tools"`
	Log     logConfig           `yaml:"log"`
}

type pathsConfig struct {
	Exclude []string `yaml:"exclude"`
}

type runConfig struct {
	Parallel    int `yaml:"parallel"`
	ToolTimeout int `yaml:"tool_timeout"`
}

type logConfig struct {
	Filename   string `yaml:"filename"`
	Level      string `yaml:"level"`
	Verbose    bool   `yaml:"verbose"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

func newDefaultConfig() defaultConfig {
	return defaultConfig{
		Version: currentConfigVersion,
		Output:  defaultReportsDir,
		Paths:   pathsConfig{Exclude: []string{}},
		Run: runConfig{
			Parallel:    defaultParallel,
			ToolTimeout: defaultToolTimeout,
		},
		Tools: map[string][]string{
			"python": defaultPythonTools,
			"c":      defaultCTools,
		},
		Log: logConfig{
			Filename:   defaultLogFilename,
			Level:      defaultLogLevel,
			Verbose:    defaultLogVerbose,
			MaxSize:    defaultLogMaxSize,
			MaxBackups: defaultLogMaxBackups,
			MaxAge:     defaultLogMaxAge,
			Compress:   defaultLogCompress,
		},
	}
}

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default perfeq.yaml configuration file",
		Long: `Create a perfeq.yaml in the current working directory populated with the
default tool commands and settings so it can be edited manually.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			if _, err := os.Stat(targetPath); err == nil {
				return fmt.Errorf("%w: %s", errConfigExists, targetPath)
			}

			content, err := yaml.Marshal(newDefaultConfig())
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			if err := os.WriteFile(targetPath, content, 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("Wrote %s\n", targetPath)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
