// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cli implements the Bizpaysol command-line interface: submitting
// payment instructions, generating and sealing settlement files, validating
// and verifying them, business-day queries, and backup/restore.
package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/joelmooyoung/Bizpaysol/internal/config"
	"github.com/joelmooyoung/Bizpaysol/internal/db"
	"github.com/joelmooyoung/Bizpaysol/internal/envelope"
	"github.com/joelmooyoung/Bizpaysol/internal/i18n"
	"github.com/joelmooyoung/Bizpaysol/internal/logging"
	"github.com/joelmooyoung/Bizpaysol/internal/state"
)

// Build metadata, overridden at link time.
var (
	version   = "dev"
	gitCommit = "dev"
	buildDate = ""
)

var (
	cfgFile         string
	verbose         bool
	showVersionFlag bool
	fullRestore     bool
)

var appConfig config.Config

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./bizpaysol.db",
		"language":      "en",
		"output_dir":    "./output",
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	// A "file not found" error is expected on first run; create a default
	// config so subsequent runs have a persisted file to inspect.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			log.Warnf("Warning: could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Post-process config to ensure critical values are not empty, falling
	// back to defaults when the user's config file left them blank.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}
	if appConfig.OutputDir == "" {
		appConfig.OutputDir = defaults["output_dir"].(string)
	}

	i18n.Init(appConfig.Language)
	logging.SetDebug(verbose || appConfig.Debug)

	if !db.IsInitialized() {
		if _, err := db.New(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
	}

	// Position the file sequence counter after the most recently generated
	// file so a restart does not reuse its modifier.
	if last, err := db.GetLastSettlementFile(); err == nil && last != nil {
		state.Sequence.Seed(last.SequenceModifier)
		state.Sequence.Advance()
	}

	return nil
}

// envelopeService builds the envelope service from the configured secret,
// prompting on the terminal when the config carries none.
func envelopeService() (*envelope.Service, error) {
	secret := appConfig.Encryption.Secret
	if secret == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Print(i18n.T("secret.prompt"))
		byteSecret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return nil, fmt.Errorf("%s", i18n.T("secret.error_read", err))
		}
		fmt.Println()
		secret = string(byteSecret)
	}
	svc, err := envelope.New(secret)
	if err != nil {
		return nil, errors.New(i18n.T("secret.missing"))
	}
	return svc, nil
}

// Execute runs the CLI entrypoint. The root main package should call this
// function and handle process exit.
func Execute() error {
	rootCmd := NewRootCmd()
	return rootCmd.Execute()
}

func applyDefaultFlags(cmd *cobra.Command) {
	// Avoid redefining flags if they already exist (NewRootCmd may be called
	// multiple times in tests). pflag panics on duplicate flag definitions.
	if cmd.Flags().Lookup("database.type") == nil {
		cmd.Flags().String("database.type", "sqlite", "Database type (e.g., sqlite, postgres)")
	}
	if cmd.Flags().Lookup("database.dsn") == nil {
		cmd.Flags().String("database.dsn", "./bizpaysol.db", "Database connection string (DSN)")
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if cmd.Flags().Changed("config") {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return nil, fmt.Errorf("could not read --config flag: %w", err)
		}
		if path == "" {
			return nil, nil
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		return &path, nil
	}
	return nil, nil
}

// NewRootCmd creates and configures a new root cobra command. It is used for
// the main application command as well as fresh instances in tests.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bizpaysol",
		Short: "Bizpaysol generates and protects ACH settlement files.",
		Long: `Bizpaysol is a payment settlement tool. Payment instructions are
collected into a database, drawn into NACHA settlement files on demand,
and sealed into encrypted, checksum-verified envelopes at rest.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				fmt.Printf("%s\n", compositeVersion())
				os.Exit(0)
			}
			if verbose {
				db.SetDebug(true)
			}
			return setupDefaultServices(cmd, args)
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Output language ("en", "de")`)
	applyDefaultFlags(cmd)

	applyDefaultFlags(submitCmd)
	applyDefaultFlags(listCmd)
	applyDefaultFlags(filesCmd)
	applyDefaultFlags(generateCmd)
	applyDefaultFlags(validateCmd)
	applyDefaultFlags(verifyCmd)
	applyDefaultFlags(auditCmd)
	applyDefaultFlags(backupCmd)
	applyDefaultFlags(restoreCmd)
	applyDefaultFlags(dbMaintainCmd)
	if restoreCmd.Flags().Lookup("full") == nil {
		restoreCmd.Flags().BoolVar(&fullRestore, "full", false, "Perform a full, destructive restore (wipes all existing data first)")
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion()
			fmt.Printf("version: %s\n", v)
			fmt.Printf("commit: %s\n", c)
			if d != "" {
				fmt.Printf("built: %s\n", d)
			}
		},
	}

	cmd.AddCommand(
		submitCmd,
		listCmd,
		filesCmd,
		generateCmd,
		validateCmd,
		verifyCmd,
		calendarCmd,
		auditCmd,
		backupCmd,
		restoreCmd,
		dbMaintainCmd,
		versionCmd,
	)

	return cmd
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary from link-time variables and runtime build info.
func resolveBuildVersion() (versionOut, commitOut, dateOut string) {
	resolvedVersion := version
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion()
	out := v
	if c != "" && c != "dev" {
		out = out + " (" + c + ")"
	}
	if d != "" {
		out = out + " built: " + d
	}
	return out
}
