package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/deckgen/internal/adapters/secondary/config"
	"github.com/fredcamaral/deckgen/internal/domain/services"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with the default settings",
		Long: `Write the default configuration as TOML. Without a path the global
file ~/.config/deckgen/config.toml is created. An existing file is
never replaced.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConfigInit,
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})

	return configCmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader := config.NewTOMLLoader()

	path := loader.GetGlobalPath()
	if len(args) > 0 {
		path = args[0]
	}

	configService := services.NewConfigService(loader, config.NewConfigMerger())
	if err := configService.CreateConfig(cmd.Context(), path); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	finalConfig, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	data, err := config.EncodeConfig(finalConfig)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
