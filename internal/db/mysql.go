// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Bizpaysol.
// This file contains the MySQL implementation of the database store.
package db // import "github.com/joelmooyoung/Bizpaysol/internal/db"

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/joelmooyoung/Bizpaysol/internal/model"
	"github.com/uptrace/bun"
)

// MySQLStore is the MySQL implementation of the Store interface. All
// operations route through the shared Bun adapters; the dialect differences
// live in the driver and the migrations.
type MySQLStore struct {
	bun *bun.DB
}

func (s *MySQLStore) AddInstruction(instr model.PaymentInstruction) (int, error) {
	id, err := AddInstructionBun(s.bun, instr)
	if err == nil {
		_ = s.LogAction("ADD_INSTRUCTION", fmt.Sprintf("id: %d, amount: %.2f", id, instr.Amount))
	}
	return id, err
}

func (s *MySQLStore) GetPendingInstructions() ([]model.PaymentInstruction, error) {
	return GetPendingInstructionsBun(s.bun)
}

func (s *MySQLStore) GetAllInstructions() ([]model.PaymentInstruction, error) {
	return GetAllInstructionsBun(s.bun)
}

func (s *MySQLStore) MarkInstructionsProcessed(ids []int) error {
	err := MarkInstructionsProcessedBun(s.bun, ids)
	if err == nil {
		_ = s.LogAction("MARK_PROCESSED", fmt.Sprintf("count: %d", len(ids)))
	}
	return err
}

func (s *MySQLStore) RecordSettlementFile(file model.SettlementFile) error {
	err := RecordSettlementFileBun(s.bun, file)
	if err == nil {
		_ = s.LogAction("RECORD_SETTLEMENT_FILE", fmt.Sprintf("filename: %s, instructions: %d", file.Filename, file.InstructionCount))
	}
	return err
}

func (s *MySQLStore) GetAllSettlementFiles() ([]model.SettlementFile, error) {
	return GetAllSettlementFilesBun(s.bun)
}

func (s *MySQLStore) GetLastSettlementFile() (*model.SettlementFile, error) {
	return GetLastSettlementFileBun(s.bun)
}

func (s *MySQLStore) GetSettlementFileByFilename(filename string) (*model.SettlementFile, error) {
	return GetSettlementFileByFilenameBun(s.bun, filename)
}

func (s *MySQLStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}

func (s *MySQLStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

func (s *MySQLStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

func (s *MySQLStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}
