// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/joelmooyoung/Bizpaysol/internal/model"
)

// Store defines the interface for all database operations in Bizpaysol.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Instruction methods
	AddInstruction(instr model.PaymentInstruction) (int, error)
	GetPendingInstructions() ([]model.PaymentInstruction, error)
	GetAllInstructions() ([]model.PaymentInstruction, error)
	MarkInstructionsProcessed(ids []int) error

	// Settlement file methods
	RecordSettlementFile(file model.SettlementFile) error
	GetAllSettlementFiles() ([]model.SettlementFile, error)
	GetLastSettlementFile() (*model.SettlementFile, error)
	GetSettlementFileByFilename(filename string) (*model.SettlementFile, error)

	// Audit log methods
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
	LogAction(action string, details string) error

	// Backup methods
	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(backup *model.BackupData) error
}
