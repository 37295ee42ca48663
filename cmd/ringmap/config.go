package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/ringmap/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set global configuration values",
	Long: fmt.Sprintf(`Get or set global configuration values.

Usage:
  ringmap config get                   # Show effective config
  ringmap config get width             # Get specific value
  ringmap config set dataset ~/tax.yml # Set value
  ringmap config path                  # Show config file location

Every key can be overridden with a %sKEY environment variable, and a .env
file in the working directory is loaded first.`, config.EnvPrefix),
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show the effective configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()

		if len(args) == 0 {
			values := make(map[string]string)
			for _, k := range config.Keys() {
				values[k], _ = cfg.Get(k)
			}
			if !humanOutput {
				return outputJSON(values)
			}
			for _, k := range config.Keys() {
				outputHuman("%-12s %s\n", k+":", values[k])
			}
			return nil
		}

		v, err := cfg.Get(args[0])
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(v)
			return nil
		}
		return outputJSON(map[string]string{args[0]: v})
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Edit the file as written so defaults and env overrides are not persisted.
		cfg, err := config.ReadFile()
		if err != nil {
			exitWithError(ExitConfigError, "reading config: %v", err)
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if err := config.SaveGlobalConfig(cfg); err != nil {
			exitWithError(ExitError, "saving config: %v", err)
		}

		v, _ := cfg.Get(args[0])
		if humanOutput {
			outputHuman("Set %s = %s\n", args[0], v)
			return nil
		}
		return outputJSON(UpdateResponse{Status: "updated", Key: args[0], Value: v})
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.GlobalConfigPath()
		if humanOutput {
			fmt.Println(path)
			return nil
		}
		return outputJSON(StatusResponse{Status: "ok", Path: path})
	},
}
