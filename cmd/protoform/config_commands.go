package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temporal-IPA/protoform/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the protoform configuration",
	}
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	return configCmd
}

// initTarget resolves where "config init" writes; an empty path selects
// ~/.config/protoform/config.toml.
func initTarget(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(path)
}

func newConfigInitCommand() *cobra.Command {
	var path string
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Long:        "Write a commented sample configuration. Without --path it goes to ~/.config/protoform/config.toml.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(path)
			if err != nil {
				return fmt.Errorf("config path: %w", err)
			}
			_, statErr := os.Stat(target)
			switch {
			case statErr == nil && !force:
				return fmt.Errorf("%s exists; pass --force to replace it", target)
			case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
				return fmt.Errorf("config path: %w", statErr)
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sample configuration written to %s\n", target)
			fmt.Fprintln(out, "Set inventory.path to use your own segment database; the embedded IPA table is used otherwise.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Where to write the configuration")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing file")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and report the sources it selects",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(strings.TrimSpace(*ctx.configFlag))
			if err != nil {
				return err
			}
			source := path
			if !exists {
				source = path + " (missing, defaults applied)"
			}
			inventory := cfg.Inventory.Path
			if inventory == "" {
				inventory = "built-in IPA table"
			} else if n := len(cfg.Inventory.ExtraPaths); n > 0 {
				inventory = fmt.Sprintf("%s + %d more (%s)", inventory, n, cfg.Inventory.MergeMode)
			}
			lexemes := cfg.Lexemes.Path
			if lexemes == "" {
				lexemes = "none, pass --lexemes to run"
			}

			tbl := newResultTable("Setting", "Value")
			tbl.add("config", source)
			tbl.add("segment database", inventory)
			tbl.add("lexemes", lexemes)
			tbl.add("workers", workersLabel(cfg.Engine.Workers))
			tbl.add("logging", cfg.Logging.Format+"/"+cfg.Logging.Level)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tbl.render())
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func workersLabel(n int) string {
	if n <= 0 {
		return "one per CPU"
	}
	return fmt.Sprint(n)
}
