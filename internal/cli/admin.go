// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	log "github.com/charmbracelet/log"

	"github.com/joelmooyoung/Bizpaysol/internal/db"
	"github.com/joelmooyoung/Bizpaysol/internal/i18n"
)

// auditCmd prints the audit trail, most recent entries first.
var auditCmd = &cobra.Command{
	Use:     "audit",
	Short:   "Show the audit trail",
	Long:    `Lists the append-only audit trail: who did what, and when. Entries are recorded automatically for every mutating store operation.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := db.GetAllAuditLogEntries()
		if err != nil {
			log.Fatalf("%s", i18n.T("audit.error", err))
		}
		if len(entries) == 0 {
			fmt.Println(i18n.T("audit.none"))
			return
		}
		for _, e := range entries {
			fmt.Printf("%s  %-12s  %-24s  %s\n", e.Timestamp, e.Username, e.Action, e.Details)
		}
	},
}

// dbMaintainCmd runs database maintenance tasks for the configured database.
var dbMaintainCmd = &cobra.Command{
	Use:     "db-maintain",
	Short:   "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
	Long:    `Runs engine-specific maintenance tasks (VACUUM, OPTIMIZE TABLE, PRAGMA optimize).`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		if err := db.RunDBMaintenance(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			fmt.Printf("Maintenance failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Maintenance completed successfully")
	},
}
