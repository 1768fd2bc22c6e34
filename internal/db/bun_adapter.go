// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/joelmooyoung/Bizpaysol/internal/model"
	"github.com/uptrace/bun"
)

// InstructionModel maps the `instructions` table for Bun queries.
type InstructionModel struct {
	bun.BaseModel `bun:"table:instructions"`
	ID            int          `bun:"id,pk,autoincrement"`
	DebitRouting  string       `bun:"debit_routing"`
	DebitAccount  string       `bun:"debit_account"`
	DebitID       string       `bun:"debit_id"`
	DebitName     string       `bun:"debit_name"`
	CreditRouting string       `bun:"credit_routing"`
	CreditAccount string       `bun:"credit_account"`
	CreditID      string       `bun:"credit_id"`
	CreditName    string       `bun:"credit_name"`
	Amount        float64      `bun:"amount"`
	EffectiveDate time.Time    `bun:"effective_date"`
	Status        string       `bun:"status"`
	CreatedAt     time.Time    `bun:"created_at"`
	ProcessedAt   sql.NullTime `bun:"processed_at"`
}

// SettlementFileModel maps the `settlement_files` table for Bun queries.
// Instruction IDs travel as a JSON array in a text column so the set survives
// every backend without a join table.
type SettlementFileModel struct {
	bun.BaseModel    `bun:"table:settlement_files"`
	ID               string    `bun:"id,pk"`
	Filename         string    `bun:"filename"`
	InstructionCount int       `bun:"instruction_count"`
	TotalAmount      float64   `bun:"total_amount"`
	Checksum         string    `bun:"checksum"`
	SequenceModifier int       `bun:"sequence_modifier"`
	InstructionIDs   string    `bun:"instruction_ids"`
	CreatedAt        time.Time `bun:"created_at"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

func instructionModelToModel(m InstructionModel) model.PaymentInstruction {
	out := model.PaymentInstruction{
		ID:            m.ID,
		DebitRouting:  m.DebitRouting,
		DebitAccount:  m.DebitAccount,
		DebitID:       m.DebitID,
		DebitName:     m.DebitName,
		CreditRouting: m.CreditRouting,
		CreditAccount: m.CreditAccount,
		CreditID:      m.CreditID,
		CreditName:    m.CreditName,
		Amount:        m.Amount,
		EffectiveDate: m.EffectiveDate,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
	}
	if m.ProcessedAt.Valid {
		t := m.ProcessedAt.Time
		out.ProcessedAt = &t
	}
	return out
}

func settlementFileModelToModel(m SettlementFileModel) model.SettlementFile {
	out := model.SettlementFile{
		ID:               m.ID,
		Filename:         m.Filename,
		InstructionCount: m.InstructionCount,
		TotalAmount:      m.TotalAmount,
		Checksum:         m.Checksum,
		SequenceModifier: m.SequenceModifier,
		CreatedAt:        m.CreatedAt,
	}
	if m.InstructionIDs != "" {
		_ = json.Unmarshal([]byte(m.InstructionIDs), &out.InstructionIDs)
	}
	return out
}

func encodeInstructionIDs(ids []int) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

// AddInstructionBun inserts a new pending instruction and returns its ID.
func AddInstructionBun(bdb *bun.DB, instr model.PaymentInstruction) (int, error) {
	ctx := context.Background()
	m := InstructionModel{
		DebitRouting:  instr.DebitRouting,
		DebitAccount:  instr.DebitAccount,
		DebitID:       instr.DebitID,
		DebitName:     instr.DebitName,
		CreditRouting: instr.CreditRouting,
		CreditAccount: instr.CreditAccount,
		CreditID:      instr.CreditID,
		CreditName:    instr.CreditName,
		Amount:        instr.Amount,
		EffectiveDate: instr.EffectiveDate,
		Status:        model.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := bdb.NewInsert().Model(&m).Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return m.ID, nil
}

// GetPendingInstructionsBun retrieves pending instructions oldest first, the
// order they are drawn into a settlement file.
func GetPendingInstructionsBun(bdb *bun.DB) ([]model.PaymentInstruction, error) {
	ctx := context.Background()
	var ms []InstructionModel
	if err := bdb.NewSelect().Model(&ms).Where("status = ?", model.StatusPending).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.PaymentInstruction, 0, len(ms))
	for _, m := range ms {
		out = append(out, instructionModelToModel(m))
	}
	return out, nil
}

// GetAllInstructionsBun retrieves every instruction, newest first.
func GetAllInstructionsBun(bdb *bun.DB) ([]model.PaymentInstruction, error) {
	ctx := context.Background()
	var ms []InstructionModel
	if err := bdb.NewSelect().Model(&ms).OrderExpr("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.PaymentInstruction, 0, len(ms))
	for _, m := range ms {
		out = append(out, instructionModelToModel(m))
	}
	return out, nil
}

// MarkInstructionsProcessedBun flips the given instructions to processed and
// stamps processed_at, all within one transaction.
func MarkInstructionsProcessedBun(bdb *bun.DB, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	ctx := context.Background()
	now := time.Now().UTC()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*InstructionModel)(nil)).
			Set("status = ?", model.StatusProcessed).
			Set("processed_at = ?", now).
			Where("id IN (?)", bun.In(ids)).
			Exec(ctx)
		return err
	})
}

// RecordSettlementFileBun inserts a settlement file record.
func RecordSettlementFileBun(bdb *bun.DB, file model.SettlementFile) error {
	ctx := context.Background()
	m := SettlementFileModel{
		ID:               file.ID,
		Filename:         file.Filename,
		InstructionCount: file.InstructionCount,
		TotalAmount:      file.TotalAmount,
		Checksum:         file.Checksum,
		SequenceModifier: file.SequenceModifier,
		InstructionIDs:   encodeInstructionIDs(file.InstructionIDs),
		CreatedAt:        file.CreatedAt,
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := bdb.NewInsert().Model(&m).Exec(ctx)
	return MapDBError(err)
}

// GetAllSettlementFilesBun retrieves settlement file records, newest first.
func GetAllSettlementFilesBun(bdb *bun.DB) ([]model.SettlementFile, error) {
	ctx := context.Background()
	var ms []SettlementFileModel
	if err := bdb.NewSelect().Model(&ms).OrderExpr("created_at DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.SettlementFile, 0, len(ms))
	for _, m := range ms {
		out = append(out, settlementFileModelToModel(m))
	}
	return out, nil
}

// GetLastSettlementFileBun retrieves the most recently recorded settlement
// file, or nil when none exist.
func GetLastSettlementFileBun(bdb *bun.DB) (*model.SettlementFile, error) {
	ctx := context.Background()
	var m SettlementFileModel
	err := bdb.NewSelect().Model(&m).OrderExpr("created_at DESC").Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	out := settlementFileModelToModel(m)
	return &out, nil
}

// GetSettlementFileByFilenameBun retrieves one settlement file record by its
// filename, or nil when unknown.
func GetSettlementFileByFilenameBun(bdb *bun.DB, filename string) (*model.SettlementFile, error) {
	ctx := context.Background()
	var m SettlementFileModel
	err := bdb.NewSelect().Model(&m).Where("filename = ?", filename).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	out := settlementFileModelToModel(m)
	return &out, nil
}

// GetAllAuditLogEntriesBun retrieves audit log entries ordered by timestamp desc.
func GetAllAuditLogEntriesBun(bdb *bun.DB) ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var am []AuditLogModel
	if err := bdb.NewSelect().Model(&am).OrderExpr("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, model.AuditLogEntry{ID: a.ID, Timestamp: a.Timestamp, Username: a.Username, Action: a.Action, Details: a.Details})
	}
	return out, nil
}

// LogActionBun inserts an audit log entry with the current OS user.
func LogActionBun(bdb *bun.DB, action string, details string) error {
	ctx := context.Background()
	curUser, err := user.Current()
	username := "unknown"
	if err == nil {
		if parts := strings.Split(curUser.Username, `\`); len(parts) > 1 {
			username = parts[1]
		} else {
			username = curUser.Username
		}
	}
	_, err = ExecRaw(ctx, bdb, "INSERT INTO audit_log (username, action, details) VALUES (?, ?, ?)", username, action, details)
	return MapDBError(err)
}

// ExportDataForBackupBun exports all tables' data into a model.BackupData
// using a Bun transaction for a consistent snapshot.
func ExportDataForBackupBun(bdb *bun.DB) (*model.BackupData, error) {
	ctx := context.Background()
	var backup *model.BackupData
	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		backup = &model.BackupData{}

		var instrs []InstructionModel
		if err := tx.NewSelect().Model(&instrs).OrderExpr("id ASC").Scan(ctx); err != nil {
			return err
		}
		for _, m := range instrs {
			backup.Instructions = append(backup.Instructions, instructionModelToModel(m))
		}

		var files []SettlementFileModel
		if err := tx.NewSelect().Model(&files).OrderExpr("created_at ASC").Scan(ctx); err != nil {
			return err
		}
		for _, m := range files {
			backup.SettlementFiles = append(backup.SettlementFiles, settlementFileModelToModel(m))
		}

		var als []AuditLogModel
		if err := tx.NewSelect().Model(&als).OrderExpr("id ASC").Scan(ctx); err != nil {
			return err
		}
		for _, a := range als {
			backup.AuditLog = append(backup.AuditLog, model.AuditLogEntry{ID: a.ID, Timestamp: a.Timestamp, Username: a.Username, Action: a.Action, Details: a.Details})
		}

		return nil
	})
	return backup, err
}

// ImportDataFromBackupBun performs a full wipe-and-replace using a Bun transaction.
func ImportDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		tables := []string{"audit_log", "settlement_files", "instructions"}
		for _, t := range tables {
			if _, err := ExecRaw(ctx, tx, fmt.Sprintf("DELETE FROM %s", t)); err != nil {
				return err
			}
		}

		for _, instr := range backup.Instructions {
			var processedAt interface{}
			if instr.ProcessedAt != nil {
				processedAt = *instr.ProcessedAt
			}
			if _, err := ExecRaw(ctx, tx,
				"INSERT INTO instructions (id, debit_routing, debit_account, debit_id, debit_name, credit_routing, credit_account, credit_id, credit_name, amount, effective_date, status, created_at, processed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				instr.ID, instr.DebitRouting, instr.DebitAccount, instr.DebitID, instr.DebitName,
				instr.CreditRouting, instr.CreditAccount, instr.CreditID, instr.CreditName,
				instr.Amount, instr.EffectiveDate, instr.Status, instr.CreatedAt, processedAt); err != nil {
				return MapDBError(err)
			}
		}

		for _, file := range backup.SettlementFiles {
			if _, err := ExecRaw(ctx, tx,
				"INSERT INTO settlement_files (id, filename, instruction_count, total_amount, checksum, sequence_modifier, instruction_ids, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				file.ID, file.Filename, file.InstructionCount, file.TotalAmount, file.Checksum,
				file.SequenceModifier, encodeInstructionIDs(file.InstructionIDs), file.CreatedAt); err != nil {
				return MapDBError(err)
			}
		}

		// Convert RFC3339 timestamps to time.Time when possible so MySQL accepts them.
		for _, ale := range backup.AuditLog {
			var ts interface{} = ale.Timestamp
			if ale.Timestamp != "" {
				if parsed, err := time.Parse(time.RFC3339, ale.Timestamp); err == nil {
					ts = parsed
				} else {
					s := strings.Replace(ale.Timestamp, "T", " ", 1)
					ts = strings.TrimSuffix(s, "Z")
				}
			}
			if _, err := ExecRaw(ctx, tx, "INSERT INTO audit_log (id, timestamp, username, action, details) VALUES (?, ?, ?, ?, ?)", ale.ID, ts, ale.Username, ale.Action, ale.Details); err != nil {
				return MapDBError(err)
			}
		}
		return nil
	})
}
