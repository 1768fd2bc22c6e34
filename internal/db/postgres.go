// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Bizpaysol.
// This file contains the PostgreSQL implementation of the database store.
package db // import "github.com/joelmooyoung/Bizpaysol/internal/db"

import (
	"fmt"

	"github.com/joelmooyoung/Bizpaysol/internal/model"
	"github.com/uptrace/bun"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// PostgresStore is the PostgreSQL implementation of the Store interface. All
// operations route through the shared Bun adapters; the dialect differences
// live in the driver and the migrations.
type PostgresStore struct {
	bun *bun.DB
}

func (s *PostgresStore) AddInstruction(instr model.PaymentInstruction) (int, error) {
	id, err := AddInstructionBun(s.bun, instr)
	if err == nil {
		_ = s.LogAction("ADD_INSTRUCTION", fmt.Sprintf("id: %d, amount: %.2f", id, instr.Amount))
	}
	return id, err
}

func (s *PostgresStore) GetPendingInstructions() ([]model.PaymentInstruction, error) {
	return GetPendingInstructionsBun(s.bun)
}

func (s *PostgresStore) GetAllInstructions() ([]model.PaymentInstruction, error) {
	return GetAllInstructionsBun(s.bun)
}

func (s *PostgresStore) MarkInstructionsProcessed(ids []int) error {
	err := MarkInstructionsProcessedBun(s.bun, ids)
	if err == nil {
		_ = s.LogAction("MARK_PROCESSED", fmt.Sprintf("count: %d", len(ids)))
	}
	return err
}

func (s *PostgresStore) RecordSettlementFile(file model.SettlementFile) error {
	err := RecordSettlementFileBun(s.bun, file)
	if err == nil {
		_ = s.LogAction("RECORD_SETTLEMENT_FILE", fmt.Sprintf("filename: %s, instructions: %d", file.Filename, file.InstructionCount))
	}
	return err
}

func (s *PostgresStore) GetAllSettlementFiles() ([]model.SettlementFile, error) {
	return GetAllSettlementFilesBun(s.bun)
}

func (s *PostgresStore) GetLastSettlementFile() (*model.SettlementFile, error) {
	return GetLastSettlementFileBun(s.bun)
}

func (s *PostgresStore) GetSettlementFileByFilename(filename string) (*model.SettlementFile, error) {
	return GetSettlementFileByFilenameBun(s.bun, filename)
}

func (s *PostgresStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}

func (s *PostgresStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

func (s *PostgresStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

func (s *PostgresStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}
