// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full application configuration, populated from file,
// environment and command-line flags in that order of precedence.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Company    CompanyConfig    `mapstructure:"company" yaml:"company"`
	Encryption EncryptionConfig `mapstructure:"encryption" yaml:"encryption"`
	OutputDir  string           `mapstructure:"output_dir" yaml:"output_dir"`
	Language   string           `mapstructure:"language" yaml:"language"`
	Debug      bool             `mapstructure:"debug" yaml:"debug"`
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

// CompanyConfig is the origination identity stamped into every settlement
// file header.
type CompanyConfig struct {
	ImmediateDestination string `mapstructure:"immediate_destination" yaml:"immediate_destination"`
	ImmediateOrigin      string `mapstructure:"immediate_origin" yaml:"immediate_origin"`
	Name                 string `mapstructure:"name" yaml:"name"`
	ID                   string `mapstructure:"id" yaml:"id"`
	RoutingNumber        string `mapstructure:"routing_number" yaml:"routing_number"`
	DiscretionaryData    string `mapstructure:"discretionary_data" yaml:"discretionary_data"`
}

// EncryptionConfig carries the at-rest envelope secret. It is never written
// to logs and the config file carrying it is created with mode 0600.
type EncryptionConfig struct {
	Secret string `mapstructure:"secret" yaml:"secret"`
}

var routingPattern = regexp.MustCompile(`^\d{9}$`)

// Validate checks the fields settlement file generation cannot run without.
func (c CompanyConfig) Validate() error {
	if !routingPattern.MatchString(c.RoutingNumber) {
		return fmt.Errorf("company.routing_number must be exactly 9 digits, got %q", c.RoutingNumber)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("company.name is required")
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("company.id is required")
	}
	return nil
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Bizpaysol")
		default:
			configDir = "/etc/bizpaysol"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "bizpaysol")
	}

	return filepath.Join(configDir, "bizpaysol.yaml"), nil
}

// LoadConfig builds a T from defaults, config file, environment and the
// command's bound flags, in ascending precedence. When no config file is
// found, the populated T is still returned together with viper's
// ConfigFileNotFoundError so the caller can decide whether to create one.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFilePath *string) (T, error) {
	var c T
	var notFound error
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("bizpaysol")
	v.SetConfigType("yaml")

	// An explicit --config flag has the highest file precedence.
	if configFilePath != nil && *configFilePath != "" {
		v.SetConfigFile(*configFilePath)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
		notFound = err
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("bizpaysol")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFound
}

// WriteConfigFile persists c to the user or system config location. Mode is
// 0600 because the file may carry the encryption secret.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0600)
}
