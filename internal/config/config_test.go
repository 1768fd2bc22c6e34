// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	defaults := map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./bizpaysol.db",
		"language":      "en",
		"output_dir":    "./output",
	}

	cfg, err := LoadConfig[Config](cmd, defaults, nil)
	// Without any config file on disk, LoadConfig reports not-found but still
	// populates the defaults.
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			t.Fatalf("LoadConfig: %v", err)
		}
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("database.type = %q, want sqlite", cfg.Database.Type)
	}
	if cfg.Database.Dsn != "./bizpaysol.db" {
		t.Errorf("database.dsn = %q", cfg.Database.Dsn)
	}
	if cfg.Language != "en" {
		t.Errorf("language = %q, want en", cfg.Language)
	}
	if cfg.OutputDir != "./output" {
		t.Errorf("output_dir = %q, want ./output", cfg.OutputDir)
	}
}

func TestLoadConfigExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bizpaysol.yaml")
	content := `
database:
  type: postgres
  dsn: postgres://settle:pw@localhost/bizpaysol
company:
  name: BIZPAYSOL INC
  id: "1234567890"
  routing_number: "123456789"
encryption:
  secret: file-secret
output_dir: /var/lib/bizpaysol/out
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cmd := &cobra.Command{Use: "test"}
	cfg, err := LoadConfig[Config](cmd, map[string]any{"database.type": "sqlite"}, &path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Type != "postgres" {
		t.Errorf("file must override default, got database.type = %q", cfg.Database.Type)
	}
	if cfg.Company.RoutingNumber != "123456789" {
		t.Errorf("company.routing_number = %q", cfg.Company.RoutingNumber)
	}
	if cfg.Encryption.Secret != "file-secret" {
		t.Errorf("encryption.secret did not load")
	}
	if err := cfg.Company.Validate(); err != nil {
		t.Errorf("loaded company config must validate: %v", err)
	}
}

func TestLoadConfigFlagOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bizpaysol.yaml")
	if err := os.WriteFile(path, []byte("output_dir: /from/file\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("output_dir", "", "")
	if err := cmd.Flags().Set("output_dir", "/from/flag"); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig[Config](cmd, nil, &path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.OutputDir != "/from/flag" {
		t.Errorf("flag must override file, got output_dir = %q", cfg.OutputDir)
	}
}

func TestCompanyConfigValidate(t *testing.T) {
	valid := CompanyConfig{
		Name:          "BIZPAYSOL INC",
		ID:            "1234567890",
		RoutingNumber: "123456789",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CompanyConfig)
	}{
		{"short routing", func(c *CompanyConfig) { c.RoutingNumber = "1234" }},
		{"alpha routing", func(c *CompanyConfig) { c.RoutingNumber = "12345678X" }},
		{"empty name", func(c *CompanyConfig) { c.Name = "" }},
		{"empty id", func(c *CompanyConfig) { c.ID = " " }},
	}
	for _, tc := range cases {
		c := valid
		tc.mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: want validation error", tc.name)
		}
	}
}
