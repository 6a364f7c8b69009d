package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/temporal-IPA/protoform/internal/config"
	"github.com/temporal-IPA/protoform/internal/logging"
	"github.com/temporal-IPA/protoform/pkg/ipa"
	"github.com/temporal-IPA/protoform/pkg/phono"
	"github.com/temporal-IPA/protoform/pkg/reconstruct"
	"github.com/temporal-IPA/protoform/pkg/tokenize"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	json         bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	invOnce sync.Once
	inv     *phono.Inventory
	invErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cmd *cobra.Command) *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// inventory loads the configured segment database once. Without a
// configured path the embedded IPA table is used.
func (c *commandContext) inventory(ctx context.Context) (*phono.Inventory, error) {
	c.invOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.invErr = err
			return
		}
		if cfg.Inventory.Path == "" {
			c.inv = ipa.Default()
			return
		}
		mode, err := phono.ParseMergeMode(cfg.Inventory.MergeMode)
		if err != nil {
			c.invErr = err
			return
		}
		b := phono.NewBuilder(mode)
		b.Encoding = cfg.Inventory.Encoding
		for _, path := range append([]string{cfg.Inventory.Path}, cfg.Inventory.ExtraPaths...) {
			if err := b.AddFile(ctx, path); err != nil {
				c.invErr = fmt.Errorf("load segment database: %w", err)
				return
			}
		}
		c.inv, c.invErr = b.Inventory()
	})
	return c.inv, c.invErr
}

// engine builds a reconstruction engine from the configuration.
func (c *commandContext) engine(cmd *cobra.Command) (*reconstruct.Engine, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	inv, err := c.inventory(cmd.Context())
	if err != nil {
		return nil, err
	}
	var tokOpts []tokenize.Option
	if cfg.Engine.DiacriticTolerance {
		tokOpts = append(tokOpts, tokenize.WithDiacriticTolerance())
	}
	if cfg.Engine.NotationPath != "" {
		notation, err := tokenize.LoadNotation(cfg.Engine.NotationPath)
		if err != nil {
			return nil, err
		}
		tokOpts = append(tokOpts, tokenize.WithNotation(notation))
	}
	return reconstruct.New(inv,
		reconstruct.WithLogger(c.logger(cmd)),
		reconstruct.WithResolverCache(cfg.Engine.ResolverCacheSize),
		reconstruct.WithTokenizerOptions(tokOpts...),
	), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
