package config

import (
	"errors"
	"fmt"

	"github.com/temporal-IPA/protoform/pkg/conversion"
	"github.com/temporal-IPA/protoform/pkg/phono"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateInventory(); err != nil {
		return err
	}
	if err := c.validateLexemes(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateInventory() error {
	if _, err := phono.ParseMergeMode(c.Inventory.MergeMode); err != nil {
		return fmt.Errorf("inventory.merge_mode: %w", err)
	}
	if len(c.Inventory.ExtraPaths) > 0 && c.Inventory.Path == "" {
		return errors.New("inventory.extra_paths requires inventory.path")
	}
	return validateEncoding("inventory.encoding", c.Inventory.Encoding)
}

func (c *Config) validateLexemes() error {
	return validateEncoding("lexemes.encoding", c.Lexemes.Encoding)
}

func (c *Config) validateEngine() error {
	if c.Engine.Workers < 0 {
		return errors.New("engine.workers must be zero (all CPUs) or positive")
	}
	if c.Engine.ResolverCacheSize < 0 {
		return errors.New("engine.resolver_cache_size must be zero (disabled) or positive")
	}
	if c.Engine.RefineIterations < 0 {
		return errors.New("engine.refine_iterations must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console, json or auto)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateEncoding(field, name string) error {
	if conversion.IsUTF8(name) {
		return nil
	}
	if _, err := conversion.Lookup(name); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}
