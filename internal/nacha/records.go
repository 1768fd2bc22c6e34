// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package nacha builds, sequences and validates NACHA settlement files. The
// record layouts in this file are the external contract: every record is
// exactly 94 characters and every field has a fixed width and pad side.
// Changing a width here changes the bytes a receiving bank parses, so the
// encoders reproduce the published layout verbatim.
package nacha

import (
	"strconv"
	"strings"
	"time"

	"github.com/joelmooyoung/Bizpaysol/internal/format"
)

// RecordLength is the width of every NACHA record line.
const RecordLength = 94

// Record type codes, the first character of each line.
const (
	TypeFileHeader   = "1"
	TypeBatchHeader  = "5"
	TypeEntryDetail  = "6"
	TypeBatchControl = "8"
	TypeFileControl  = "9"
)

// Transaction codes for checking-account entries. A debit file carries
// checking-debit entries, a credit file checking-credit entries.
const (
	TxnCodeCheckingDebit  = "27"
	TxnCodeCheckingCredit = "22"
)

// Service class codes for the batch header/control records.
const (
	ServiceClassDebits  = "225"
	ServiceClassCredits = "220"
)

// StandardEntryClass is fixed: Bizpaysol emits cash concentration and
// disbursement batches.
const StandardEntryClass = "CCD"

// RecordLine is the closed set of record kinds a settlement file is built
// from. Each kind carries only its own fields; Encode renders the exact
// 94-character line. The unexported marker keeps the set closed so the
// assembler's dispatch stays exhaustive.
type RecordLine interface {
	Encode() string
	recordLine()
}

// FileHeader is the type-1 record opening every file.
type FileHeader struct {
	ImmediateDestination string
	ImmediateOrigin      string
	CreatedAt            time.Time
	SequenceModifier     int
	DestinationName      string
	OriginName           string
}

func (h FileHeader) recordLine() {}

func (h FileHeader) Encode() string {
	var b strings.Builder
	b.WriteString(TypeFileHeader)
	b.WriteString("01") // priority code
	b.WriteString(format.LeftPad(h.ImmediateDestination, 10, ' '))
	b.WriteString(format.LeftPad(h.ImmediateOrigin, 10, ' '))
	b.WriteString(h.CreatedAt.Format("060102"))
	b.WriteString(h.CreatedAt.Format("1504"))
	b.WriteString(strconv.Itoa(h.SequenceModifier))
	b.WriteString("094") // record size
	b.WriteString("10")  // blocking factor
	b.WriteString("1")   // format code
	b.WriteString(format.RightPad(h.DestinationName, 23, ' '))
	b.WriteString(format.RightPad(h.OriginName, 23, ' '))
	b.WriteString(format.RightPad("", 8, ' ')) // reference code
	return b.String()
}

// BatchHeader is the type-5 record opening the (single) batch.
type BatchHeader struct {
	ServiceClass      string
	CompanyName       string
	DiscretionaryData string
	CompanyID         string
	EntryDescription  string
	DescriptiveDate   time.Time
	EffectiveDate     time.Time
	OriginatingDFI    string // first 8 digits of the origination routing number
	BatchNumber       int
}

func (h BatchHeader) recordLine() {}

func (h BatchHeader) Encode() string {
	var b strings.Builder
	b.WriteString(TypeBatchHeader)
	b.WriteString(format.LeftPad(h.ServiceClass, 3, '0'))
	b.WriteString(format.RightPad(h.CompanyName, 16, ' '))
	b.WriteString(format.RightPad(h.DiscretionaryData, 20, ' '))
	b.WriteString(format.RightPad(h.CompanyID, 10, ' '))
	b.WriteString(StandardEntryClass)
	b.WriteString(format.RightPad(h.EntryDescription, 10, ' '))
	b.WriteString(h.DescriptiveDate.Format("060102"))
	b.WriteString(h.EffectiveDate.Format("060102"))
	b.WriteString(format.RightPad("", 3, ' ')) // settlement date, filled by the operator
	b.WriteString("1")                         // originator status code
	b.WriteString(format.RightPad(h.OriginatingDFI, 8, ' '))
	b.WriteString(format.LeftPad(strconv.Itoa(h.BatchNumber), 7, '0'))
	return b.String()
}

// EntryDetail is the type-6 record carrying one money movement.
type EntryDetail struct {
	TransactionCode string
	ReceivingDFI    string // first 8 digits of the receiving routing number
	CheckDigit      string // 9th digit of the routing number, carried verbatim
	AccountNumber   string
	AmountCents     int64
	IndividualID    string
	IndividualName  string
	TraceNumber     string // 15 digits, zero-padded
}

func (e EntryDetail) recordLine() {}

func (e EntryDetail) Encode() string {
	var b strings.Builder
	b.WriteString(TypeEntryDetail)
	b.WriteString(e.TransactionCode)
	b.WriteString(format.RightPad(e.ReceivingDFI, 8, ' '))
	b.WriteString(format.RightPad(e.CheckDigit, 1, ' '))
	b.WriteString(format.RightPad(e.AccountNumber, 17, ' '))
	b.WriteString(format.LeftPad(strconv.FormatInt(e.AmountCents, 10), 10, '0'))
	b.WriteString(format.RightPad(e.IndividualID, 15, ' '))
	b.WriteString(format.RightPad(e.IndividualName, 22, ' '))
	b.WriteString(format.RightPad("", 2, ' ')) // discretionary data
	b.WriteString("0")                         // addenda record indicator
	b.WriteString(format.LeftPad(e.TraceNumber, 15, '0'))
	return b.String()
}

// BatchControl is the type-8 record closing the batch.
type BatchControl struct {
	ServiceClass     string
	EntryCount       int
	EntryHash        int64
	DebitTotalCents  int64
	CreditTotalCents int64
	CompanyID        string
	OriginatingDFI   string
	BatchNumber      int
}

func (c BatchControl) recordLine() {}

func (c BatchControl) Encode() string {
	var b strings.Builder
	b.WriteString(TypeBatchControl)
	b.WriteString(format.LeftPad(c.ServiceClass, 3, '0'))
	b.WriteString(format.LeftPad(strconv.Itoa(c.EntryCount), 6, '0'))
	b.WriteString(format.LeftPad(strconv.FormatInt(c.EntryHash, 10), 10, '0'))
	b.WriteString(format.LeftPad(strconv.FormatInt(c.DebitTotalCents, 10), 12, '0'))
	b.WriteString(format.LeftPad(strconv.FormatInt(c.CreditTotalCents, 10), 12, '0'))
	b.WriteString(format.RightPad(c.CompanyID, 10, ' '))
	b.WriteString(format.RightPad("", 19, ' ')) // message authentication code
	b.WriteString(format.RightPad("", 6, ' '))  // reserved
	b.WriteString(format.RightPad(c.OriginatingDFI, 8, ' '))
	b.WriteString(format.LeftPad(strconv.Itoa(c.BatchNumber), 7, '0'))
	return b.String()
}

// FileControl is the type-9 record closing the file. Both dollar totals
// carry the same aggregate: the file-control layout does not distinguish
// direction.
type FileControl struct {
	BatchCount       int
	BlockCount       int
	EntryCount       int
	EntryHash        int64
	DebitTotalCents  int64
	CreditTotalCents int64
}

func (c FileControl) recordLine() {}

func (c FileControl) Encode() string {
	var b strings.Builder
	b.WriteString(TypeFileControl)
	b.WriteString(format.LeftPad(strconv.Itoa(c.BatchCount), 6, '0'))
	b.WriteString(format.LeftPad(strconv.Itoa(c.BlockCount), 6, '0'))
	b.WriteString(format.LeftPad(strconv.Itoa(c.EntryCount), 8, '0'))
	b.WriteString(format.LeftPad(strconv.FormatInt(c.EntryHash, 10), 10, '0'))
	b.WriteString(format.LeftPad(strconv.FormatInt(c.DebitTotalCents, 10), 12, '0'))
	b.WriteString(format.LeftPad(strconv.FormatInt(c.CreditTotalCents, 10), 12, '0'))
	b.WriteString(format.RightPad("", 39, ' ')) // reserved
	return b.String()
}

// FillerLine is the padding line appended until the file's line count is a
// multiple of the blocking factor: the type-9 character repeated across the
// full record width.
func FillerLine() string {
	return strings.Repeat(TypeFileControl, RecordLength)
}
