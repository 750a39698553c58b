// Copyright © 2025 The guestfix authors

// Package config loads the run configuration from a YAML or JSON file and
// layers environment overrides on top, the precedence being env > file >
// defaults.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vmshift/guestfix/identity"
	"github.com/vmshift/guestfix/pkg/constants"
)

// LUKS configures unlocking of encrypted guest volumes.
type LUKS struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	PassphraseEnv string `yaml:"passphrase_env" json:"passphrase_env"`
	Keyfile       string `yaml:"keyfile" json:"keyfile"`
	MapperPrefix  string `yaml:"mapper_prefix" json:"mapper_prefix"`
}

// Config is one guestfix run over one or more disk images.
type Config struct {
	Images    []string `yaml:"images" json:"images"`
	FstabMode string   `yaml:"fstab_mode" json:"fstab_mode"`
	DryRun    bool     `yaml:"dry_run" json:"dry_run"`
	NoBackup  bool     `yaml:"no_backup" json:"no_backup"`
	Workers   int      `yaml:"workers" json:"workers"`
	WorkDir   string   `yaml:"workdir" json:"workdir"`
	ReportDir string   `yaml:"report_dir" json:"report_dir"`
	LUKS      LUKS     `yaml:"luks" json:"luks"`
}

func Default() Config {
	return Config{
		FstabMode: string(identity.ModeStabilizeAll),
		Workers:   1,
		WorkDir:   "/var/lib/guestfix",
		LUKS:      LUKS{MapperPrefix: constants.DefaultLUKSMapperPrefix},
	}
}

// Load reads path (format by extension, .json or YAML otherwise) over the
// defaults. An empty path returns the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "failed to parse config %s", path)
		}
	} else {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "failed to parse config %s", path)
		}
	}
	return cfg, nil
}

// ApplyEnv layers GUESTFIX_* environment overrides onto cfg.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GUESTFIX_IMAGES"); v != "" {
		c.Images = splitList(v)
	}
	if v := os.Getenv("GUESTFIX_FSTAB_MODE"); v != "" {
		c.FstabMode = v
	}
	if v := os.Getenv("GUESTFIX_DRY_RUN"); v != "" {
		c.DryRun, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("GUESTFIX_NO_BACKUP"); v != "" {
		c.NoBackup, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("GUESTFIX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
	if v := os.Getenv("GUESTFIX_WORKDIR"); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv("GUESTFIX_REPORT_DIR"); v != "" {
		c.ReportDir = v
	}
	if v := os.Getenv("GUESTFIX_LUKS_PASSPHRASE_ENV"); v != "" {
		c.LUKS.Enabled = true
		c.LUKS.PassphraseEnv = v
	}
	if v := os.Getenv("GUESTFIX_LUKS_KEYFILE"); v != "" {
		c.LUKS.Enabled = true
		c.LUKS.Keyfile = v
	}
}

// Validate checks the parts a run cannot proceed without.
func (c *Config) Validate() error {
	if len(c.Images) == 0 {
		return errors.New("no disk images configured")
	}
	if _, err := identity.ParseMode(c.FstabMode); err != nil {
		return err
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	return nil
}

// Mode returns the parsed fstab mode. Call Validate first.
func (c *Config) Mode() identity.Mode {
	m, _ := identity.ParseMode(c.FstabMode)
	return m
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
