// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model contains the core domain types shared across Bizpaysol: the
// paired debit/credit payment instruction, the settlement file record, and
// the audit trail entry.
package model

import (
	"fmt"
	"math"
	"time"
)

// Instruction status lifecycle. Instructions are stored as pending and move
// to processed exactly once, when they are written into a settlement file.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
)

// FileType selects which side of each instruction a settlement file draws
// from. The NACHA batch carries either debits or credits; Bizpaysol does not
// mix the two in one file.
type FileType string

const (
	FileTypeDebit  FileType = "debit"
	FileTypeCredit FileType = "credit"
)

// ValidFileType reports whether t is one of the two supported file types.
func ValidFileType(t FileType) bool {
	return t == FileTypeDebit || t == FileTypeCredit
}

// PaymentInstruction is one money movement: a debit side and a credit side,
// each with routing/account/identifier/name, plus an amount in decimal
// currency units and an effective date. Instructions are constructed from
// already-validated input (routing numbers exactly 9 digits, amount > 0)
// and are never mutated by the settlement pipeline.
type PaymentInstruction struct {
	ID            int        `json:"id"`
	DebitRouting  string     `json:"debit_routing"`
	DebitAccount  string     `json:"debit_account"`
	DebitID       string     `json:"debit_id"`
	DebitName     string     `json:"debit_name"`
	CreditRouting string     `json:"credit_routing"`
	CreditAccount string     `json:"credit_account"`
	CreditID      string     `json:"credit_id"`
	CreditName    string     `json:"credit_name"`
	Amount        float64    `json:"amount"`
	EffectiveDate time.Time  `json:"effective_date"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// AmountCents returns the amount converted to integer minor units, rounded
// to the nearest cent. Totals are accumulated in minor units so that summing
// many instructions cannot drift the way floating-point addition would.
func (p PaymentInstruction) AmountCents() int64 {
	return int64(math.Round(p.Amount * 100))
}

// String returns a short operator-facing summary of the instruction.
func (p PaymentInstruction) String() string {
	return fmt.Sprintf("#%d %s -> %s $%.2f", p.ID, p.DebitRouting, p.CreditRouting, p.Amount)
}

// SettlementFile records a generated settlement file: which instructions it
// carried, its totals, the checksum of its plaintext content, and the file
// sequence modifier it was generated under.
type SettlementFile struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	InstructionCount int       `json:"instruction_count"`
	TotalAmount      float64   `json:"total_amount"`
	Checksum         string    `json:"checksum"`
	SequenceModifier int       `json:"sequence_modifier"`
	InstructionIDs   []int     `json:"instruction_ids"`
	CreatedAt        time.Time `json:"created_at"`
}

// AuditLogEntry is one row of the append-only audit trail. Username is the
// OS user the CLI ran as when the action was recorded.
type AuditLogEntry struct {
	ID        int    `json:"id"`
	Timestamp string `json:"timestamp"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

// BackupData is the portable snapshot of the entire store, used by the
// backup/restore commands and for migrating between database backends.
type BackupData struct {
	Instructions    []PaymentInstruction `json:"instructions"`
	SettlementFiles []SettlementFile     `json:"settlement_files"`
	AuditLog        []AuditLogEntry      `json:"audit_log"`
}
