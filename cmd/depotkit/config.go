// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"depotkit/internal/config"
	"depotkit/internal/issue"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage depotkit configuration",
	Long: `Manage depotkit configuration.

Configuration is stored in:
  - Linux: ~/.config/depotkit/config.toml
  - macOS: ~/Library/Application Support/depotkit/config.toml
  - Windows: %APPDATA%\depotkit\config.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), args[0], args[1])
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.NewProvider().Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
			if err != nil {
				return err
			}
			content, err := config.GenerateTOML(loaded)
			if err != nil {
				return err
			}
			fmt.Print(content)
			return nil
		},
	})
}

func showConfig(ctx context.Context) error {
	loaded, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}

	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(headerStyle.Render("Current Configuration"))
	fmt.Println()

	if cfgDir, dirErr := config.ConfigDir(); dirErr == nil {
		cfgPath := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
		if fileExists(cfgPath) {
			fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgPath)
		} else {
			fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
		}
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s:\n", keyStyle.Render("ninja"))
	fmt.Printf("  core_multiplier: %s\n", valueStyle.Render(strconv.Itoa(loaded.Ninja.CoreMultiplier)))
	fmt.Printf("  core_addition: %s\n", valueStyle.Render(strconv.Itoa(loaded.Ninja.CoreAddition)))
	if loaded.Ninja.CoreLimit > 0 {
		fmt.Printf("  core_limit: %s\n", valueStyle.Render(strconv.Itoa(loaded.Ninja.CoreLimit)))
	} else {
		fmt.Printf("  core_limit: %s\n", SubtitleStyle.Render("(unlimited)"))
	}
	fmt.Printf("  summarize: %s\n", valueStyle.Render(strconv.FormatBool(loaded.Ninja.Summarize)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("gsutil"))
	fmt.Printf("  version: %s\n", valueStyle.Render(loaded.Gsutil.Version.String()))
	if loaded.Gsutil.BinDir.String() != "" {
		fmt.Printf("  bin_dir: %s\n", valueStyle.Render(loaded.Gsutil.BinDir.String()))
	} else {
		fmt.Printf("  bin_dir: %s\n", SubtitleStyle.Render("(next to the wrapper)"))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("vpython"))
	if loaded.VPython.ManagedPath.String() != "" {
		fmt.Printf("  managed_path: %s\n", valueStyle.Render(loaded.VPython.ManagedPath.String()))
	} else {
		fmt.Printf("  managed_path: %s\n", SubtitleStyle.Render("(resolved from PATH)"))
	}
	fmt.Printf("  bypass_python: %s\n", valueStyle.Render(loaded.VPython.BypassPython.String()))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(loaded.UI.ColorScheme.String()))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(strconv.FormatBool(loaded.UI.Verbose)))

	return nil
}

func initConfigFile() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n", SuccessStyle.Render("✓"),
		filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

func setConfigValue(ctx context.Context, key, value string) error {
	loaded, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return err
	}

	switch key {
	case "ninja.core_multiplier":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid ninja.core_multiplier: must be a positive integer")
		}
		loaded.Ninja.CoreMultiplier = n

	case "ninja.core_addition":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid ninja.core_addition: must be a non-negative integer")
		}
		loaded.Ninja.CoreAddition = n

	case "ninja.core_limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid ninja.core_limit: must be a non-negative integer")
		}
		loaded.Ninja.CoreLimit = n

	case "ninja.summarize":
		loaded.Ninja.Summarize = value == "true" || value == "1"

	case "gsutil.version":
		loaded.Gsutil.Version = config.PinnedVersion(value)
		if ok, errs := loaded.Gsutil.Version.IsValid(); !ok {
			return fmt.Errorf("invalid gsutil.version: %v", errs[0])
		}

	case "gsutil.bin_dir":
		loaded.Gsutil.BinDir = config.DirPath(value)

	case "vpython.managed_path":
		loaded.VPython.ManagedPath = config.BinaryFilePath(value)

	case "vpython.bypass_python":
		loaded.VPython.BypassPython = config.BinaryFilePath(value)

	case "ui.color_scheme":
		loaded.UI.ColorScheme = config.ColorScheme(value)
		if ok, errs := loaded.UI.ColorScheme.IsValid(); !ok {
			return fmt.Errorf("invalid ui.color_scheme: %v", errs[0])
		}

	case "ui.verbose":
		loaded.UI.Verbose = value == "true" || value == "1"

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: ninja.core_multiplier, ninja.core_addition, ninja.core_limit, ninja.summarize, gsutil.version, gsutil.bin_dir, vpython.managed_path, vpython.bypass_python, ui.color_scheme, ui.verbose", key)
	}

	if err := config.Save(loaded); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
