// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Bizpaysol.
// This file contains the SQLite implementation of the database store.
package db // import "github.com/joelmooyoung/Bizpaysol/internal/db"

import (
	"fmt"

	"github.com/joelmooyoung/Bizpaysol/internal/model"
	"github.com/uptrace/bun"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	bun *bun.DB
}

// AddInstruction adds a new pending payment instruction.
func (s *SqliteStore) AddInstruction(instr model.PaymentInstruction) (int, error) {
	id, err := AddInstructionBun(s.bun, instr)
	if err == nil {
		_ = s.LogAction("ADD_INSTRUCTION", fmt.Sprintf("id: %d, amount: %.2f", id, instr.Amount))
	}
	return id, err
}

// GetPendingInstructions retrieves all pending instructions, oldest first.
func (s *SqliteStore) GetPendingInstructions() ([]model.PaymentInstruction, error) {
	return GetPendingInstructionsBun(s.bun)
}

// GetAllInstructions retrieves all instructions, newest first.
func (s *SqliteStore) GetAllInstructions() ([]model.PaymentInstruction, error) {
	return GetAllInstructionsBun(s.bun)
}

// MarkInstructionsProcessed flips the given instructions to processed.
func (s *SqliteStore) MarkInstructionsProcessed(ids []int) error {
	err := MarkInstructionsProcessedBun(s.bun, ids)
	if err == nil {
		_ = s.LogAction("MARK_PROCESSED", fmt.Sprintf("count: %d", len(ids)))
	}
	return err
}

// RecordSettlementFile records a generated settlement file.
func (s *SqliteStore) RecordSettlementFile(file model.SettlementFile) error {
	err := RecordSettlementFileBun(s.bun, file)
	if err == nil {
		_ = s.LogAction("RECORD_SETTLEMENT_FILE", fmt.Sprintf("filename: %s, instructions: %d", file.Filename, file.InstructionCount))
	}
	return err
}

// GetAllSettlementFiles retrieves all settlement file records, newest first.
func (s *SqliteStore) GetAllSettlementFiles() ([]model.SettlementFile, error) {
	return GetAllSettlementFilesBun(s.bun)
}

// GetLastSettlementFile retrieves the most recent settlement file record.
func (s *SqliteStore) GetLastSettlementFile() (*model.SettlementFile, error) {
	return GetLastSettlementFileBun(s.bun)
}

// GetSettlementFileByFilename retrieves a settlement file record by filename.
func (s *SqliteStore) GetSettlementFileByFilename(filename string) (*model.SettlementFile, error) {
	return GetSettlementFileByFilenameBun(s.bun, filename)
}

// GetAllAuditLogEntries retrieves all entries from the audit log, most recent first.
func (s *SqliteStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}

// LogAction records an audit trail event.
func (s *SqliteStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

// ExportDataForBackup retrieves all data from the database for a backup.
// It uses a transaction to ensure a consistent snapshot of the data.
func (s *SqliteStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

// ImportDataFromBackup restores the database from a backup data structure.
// It performs a full wipe-and-replace within a single transaction to ensure atomicity.
func (s *SqliteStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}
