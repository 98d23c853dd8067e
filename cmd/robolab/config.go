// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"robolab-cli/internal/config"
)

// configCmd is the `robolab config` command tree.
var configCmd = newConfigCommand()

func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage robolab configuration",
		Long: `Manage robolab configuration.

Configuration is stored in:
  - Linux: ~/.config/robolab/config.cue
  - macOS: ~/Library/Application Support/robolab/config.cue
  - Windows: %APPDATA%\robolab\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(headerStyle.Render("Current Configuration"))
	fmt.Println()

	cfgPath, pathErr := config.ConfigFilePath()
	if pathErr == nil && fileExistsCheck(cfgPath) {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s:\n", keyStyle.Render("container"))
	fmt.Printf("  binary: %s\n", valueStyle.Render(orDefault(string(cfg.Container.Binary), "docker")))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("sif"))
	fmt.Printf("  prefer: %s\n", valueStyle.Render(orDefault(string(cfg.Sif.Prefer), "auto")))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("pack"))
	fmt.Printf("  output_dir: %s\n", valueStyle.Render(orDefault(string(cfg.Pack.OutputDir), ".")))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("hpc"))
	fmt.Printf("  partition: %s\n", valueStyle.Render(orDefault(cfg.HPC.Partition, "(omitted)")))
	fmt.Printf("  time: %s\n", valueStyle.Render(orDefault(string(cfg.HPC.Time), "(omitted)")))
	fmt.Printf("  mem: %s\n", valueStyle.Render(orDefault(string(cfg.HPC.Mem), "(omitted)")))
	fmt.Printf("  module: %s\n", valueStyle.Render(orDefault(cfg.HPC.Module, "(omitted)")))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfigFile() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s/%s.%s\n",
		SuccessStyle.Render("✓"), cfgDir, config.ConfigFileName, config.ConfigFileExt)
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s/%s.%s\n", cfgDir, config.ConfigFileName, config.ConfigFileExt)
	return nil
}

func setConfigValue(ctx context.Context, key, value string) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	switch key {
	case "container.binary":
		cfg.Container.Binary = config.BinaryFilePath(value)

	case "sif.prefer":
		cfg.Sif.Prefer = config.SifPreference(value)

	case "pack.output_dir":
		cfg.Pack.OutputDir = config.OutputDirPath(value)

	case "hpc.partition":
		cfg.HPC.Partition = value

	case "hpc.time":
		cfg.HPC.Time = config.Walltime(value)

	case "hpc.mem":
		cfg.HPC.Mem = config.MemorySpec(value)

	case "hpc.module":
		cfg.HPC.Module = value

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: container.binary, sif.prefer, pack.output_dir, hpc.partition, hpc.time, hpc.mem, hpc.module, ui.verbose, ui.color_scheme", key)
	}

	if valid, fieldErrs := cfg.IsValid(); !valid {
		return fmt.Errorf("invalid value for %s: %w", key, errors.Join(fieldErrs...))
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
