package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vanessaxdebs/kunitzdomain/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Load the configuration, apply defaults, and print the result.

Useful for verifying which file was picked up and what the pipeline
will actually run with.`,
	RunE: runConfig,
}

// ConfigResult pairs the config path with its effective contents.
type ConfigResult struct {
	Path   string         `json:"path"`
	Config *config.Config `json:"config"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading %s: %v", path, err)
	}

	if humanOutput {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		fmt.Printf("# %s\n%s", path, out)
	} else {
		outputJSON(ConfigResult{Path: path, Config: cfg})
	}
	return nil
}
