package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/catcrawler/configs"
	"github.com/Aman-CERP/catcrawler/internal/config"
	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user configuration",
		Long: `Manage the user configuration file.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/catcrawler/config.yaml)
  3. File given with --config
  4. Environment variables (CATCRAWLER_*)`,
		Example: `  # Create user config from template
  catcrawler config init

  # Show effective configuration
  catcrawler config show

  # Print user config file path
  catcrawler config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create user configuration file",
		Long: `Create the user configuration file from a template.

The file is created at ~/.config/catcrawler/config.yaml
(or $XDG_CONFIG_HOME/catcrawler/config.yaml if XDG_CONFIG_HOME is set).
With --force an existing file is backed up and rewritten with any options
it does not set yet.`,
		Example: `  catcrawler config init
  catcrawler config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Upgrade an existing configuration with new defaults")

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		source     string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Example: `  catcrawler config show
  catcrawler config show --json
  catcrawler config show --source user`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, a, jsonOutput, source)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, user, defaults")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return nil
		},
	}
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := newOutput(cmd)
	configPath := config.GetUserConfigPath()

	if config.UserConfigExists() {
		if !force {
			out.Warning("User configuration already exists")
			out.Statusf("📁", "Location: %s", configPath)
			out.Newline()
			out.Status("💡", "Use --force to upgrade with new defaults (preserves your settings)")
			return nil
		}
		return runConfigUpgrade(out, configPath)
	}

	if err := os.MkdirAll(config.GetUserConfigDir(), 0o755); err != nil {
		return caterrors.IOFailure("failed to create config directory", err)
	}
	if err := os.WriteFile(configPath, []byte(configs.UserConfigTemplate), 0o644); err != nil {
		return caterrors.IOFailure("failed to write config file", err)
	}

	out.Success("Created user configuration")
	out.Statusf("📁", "Location: %s", configPath)
	out.Newline()
	out.Status("📋", "Next steps:")
	out.Status("", "  1. Edit the file to customize settings")
	out.Status("", "  2. Run 'catcrawler config show' to verify")
	return nil
}

func runConfigUpgrade(out *output.Writer, configPath string) error {
	backupPath, err := config.BackupUserConfig()
	if err != nil {
		return caterrors.IOFailure("failed to back up config", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return caterrors.IOFailure("failed to read config", err)
	}
	added, err := config.MissingKeys(data)
	if err != nil {
		return caterrors.New(caterrors.ErrCodeConfigInvalid, "failed to parse "+configPath, err)
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	if err := cfg.WriteYAML(configPath); err != nil {
		return caterrors.IOFailure("failed to write upgraded config", err)
	}

	out.Success("Configuration upgraded")
	out.Statusf("📁", "Location: %s", configPath)
	out.Statusf("💾", "Backup: %s", backupPath)
	out.Newline()
	if len(added) > 0 {
		out.Status("✨", "New options added with defaults:")
		for _, key := range added {
			out.Statusf("", "  - %s", key)
		}
	} else {
		out.Status("✓", "Your configuration is already up to date")
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, a *app, jsonOutput bool, source string) error {
	out := newOutput(cmd)

	var (
		cfg        *config.Config
		sourceDesc string
		err        error
	)

	switch source {
	case "merged":
		if cfg, err = a.config(); err != nil {
			return err
		}
		sourceDesc = "merged (defaults + user + --config + env)"

	case "user":
		configPath := config.GetUserConfigPath()
		if !config.UserConfigExists() {
			out.Warning("No user configuration file found")
			out.Statusf("📁", "Expected at: %s", configPath)
			out.Status("💡", "Run 'catcrawler config init' to create one")
			return nil
		}
		if cfg, err = config.LoadFile(configPath); err != nil {
			return err
		}
		sourceDesc = fmt.Sprintf("user (%s)", configPath)

	case "defaults":
		cfg = config.NewConfig()
		sourceDesc = "defaults (hardcoded)"

	default:
		return caterrors.ValidationError(fmt.Sprintf("invalid source: %s", source), nil).
			WithSuggestion("use one of: merged, user, defaults")
	}

	if jsonOutput {
		return out.JSON(cfg)
	}

	out.Statusf("📋", "Configuration source: %s", sourceDesc)
	out.Newline()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return caterrors.InternalError("failed to marshal config", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
