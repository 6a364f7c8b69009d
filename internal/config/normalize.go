package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeInventory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Inventory.Path, err = expandPath(strings.TrimSpace(c.Inventory.Path)); err != nil {
		return fmt.Errorf("inventory.path: %w", err)
	}
	extra := c.Inventory.ExtraPaths[:0]
	for i, p := range c.Inventory.ExtraPaths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if p, err = expandPath(p); err != nil {
			return fmt.Errorf("inventory.extra_paths[%d]: %w", i, err)
		}
		extra = append(extra, p)
	}
	c.Inventory.ExtraPaths = extra
	if c.Lexemes.Path, err = expandPath(strings.TrimSpace(c.Lexemes.Path)); err != nil {
		return fmt.Errorf("lexemes.path: %w", err)
	}
	if c.Engine.NotationPath, err = expandPath(strings.TrimSpace(c.Engine.NotationPath)); err != nil {
		return fmt.Errorf("engine.notation_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeInventory() {
	c.Inventory.MergeMode = strings.ToLower(strings.TrimSpace(c.Inventory.MergeMode))
	if c.Inventory.MergeMode == "" {
		c.Inventory.MergeMode = defaultMergeMode
	}
	c.Inventory.Encoding = strings.TrimSpace(c.Inventory.Encoding)
	c.Lexemes.Encoding = strings.TrimSpace(c.Lexemes.Encoding)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
