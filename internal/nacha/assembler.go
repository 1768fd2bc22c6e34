// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package nacha

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joelmooyoung/Bizpaysol/internal/format"
	"github.com/joelmooyoung/Bizpaysol/internal/model"
)

// blockingFactor is the NACHA blocking factor: files are padded with filler
// lines until the line count is a multiple of this.
const blockingFactor = 10

// entryHashModulus truncates routing-prefix sums to the low ten digits, as
// the hash fields are ten characters wide.
const entryHashModulus = 10_000_000_000

var routingPattern = regexp.MustCompile(`^\d{9}$`)

// Origination identifies the originating company and its bank relationship.
// It feeds the file header and batch header/control records of every
// generated file.
type Origination struct {
	ImmediateDestination string
	ImmediateOrigin      string
	CompanyName          string
	CompanyID            string
	RoutingNumber        string
	DiscretionaryData    string
	EntryDescription     string
}

// Validate checks the fields a file cannot be assembled without. The routing
// number must be exactly nine digits because the originating DFI and trace
// numbers are substrings of it.
func (o Origination) Validate() error {
	if !routingPattern.MatchString(o.RoutingNumber) {
		return fmt.Errorf("origination routing number must be exactly 9 digits, got %q", o.RoutingNumber)
	}
	if strings.TrimSpace(o.CompanyName) == "" {
		return fmt.Errorf("origination company name is required")
	}
	if strings.TrimSpace(o.CompanyID) == "" {
		return fmt.Errorf("origination company id is required")
	}
	return nil
}

// AssembledFile is an immutable assembled settlement file plus the aggregates
// the caller records alongside it.
type AssembledFile struct {
	lines []string

	EntryCount int
	TotalCents int64
	EntryHash  int64
	BlockCount int
}

// Lines returns a copy of the file's lines in order.
func (f *AssembledFile) Lines() []string {
	out := make([]string, len(f.lines))
	copy(out, f.lines)
	return out
}

// Text renders the file as newline-joined lines, the exact bytes written to
// disk before sealing.
func (f *AssembledFile) Text() string {
	return strings.Join(f.lines, "\n")
}

// Assembler turns a slice of payment instructions into a complete NACHA
// settlement file. The clock and the trace-number randomness are injectable
// so tests can pin both.
type Assembler struct {
	orig      Origination
	now       func() time.Time
	traceRand func() int64
}

// NewAssembler validates the origination configuration and returns an
// assembler using the real clock and math/rand trace randomness. Trace
// numbers only disambiguate entries within a file, so they do not need a
// cryptographic source.
func NewAssembler(orig Origination) (*Assembler, error) {
	if err := orig.Validate(); err != nil {
		return nil, err
	}
	if orig.EntryDescription == "" {
		orig.EntryDescription = "SETTLEMENT"
	}
	return &Assembler{
		orig:      orig,
		now:       time.Now,
		traceRand: func() int64 { return rand.Int64N(10_000_000) },
	}, nil
}

// Assemble builds a settlement file of the given type from instrs. Debit
// files draw the debit side of each instruction, credit files the credit
// side. The caller normalizes the effective date to a business day before
// calling; Assemble uses it verbatim.
//
// The instruction slice may be empty: the result is a structurally complete
// file with zero entries, which the caller is expected to refuse to ship.
func (a *Assembler) Assemble(instrs []model.PaymentInstruction, effective time.Time, fileType model.FileType, sequenceModifier int) *AssembledFile {
	now := a.now()
	odfi := a.orig.RoutingNumber[:8]

	serviceClass := ServiceClassDebits
	txnCode := TxnCodeCheckingDebit
	if fileType == model.FileTypeCredit {
		serviceClass = ServiceClassCredits
		txnCode = TxnCodeCheckingCredit
	}

	lines := make([]string, 0, len(instrs)+5)
	lines = append(lines, FileHeader{
		ImmediateDestination: a.orig.ImmediateDestination,
		ImmediateOrigin:      a.orig.ImmediateOrigin,
		CreatedAt:            now,
		SequenceModifier:     sequenceModifier,
		DestinationName:      a.orig.ImmediateDestination,
		OriginName:           a.orig.CompanyName,
	}.Encode())

	lines = append(lines, BatchHeader{
		ServiceClass:      serviceClass,
		CompanyName:       a.orig.CompanyName,
		DiscretionaryData: a.orig.DiscretionaryData,
		CompanyID:         a.orig.CompanyID,
		EntryDescription:  a.orig.EntryDescription,
		DescriptiveDate:   now,
		EffectiveDate:     effective,
		OriginatingDFI:    odfi,
		BatchNumber:       1,
	}.Encode())

	var totalCents, entryHash int64
	for _, instr := range instrs {
		routing := instr.DebitRouting
		account := instr.DebitAccount
		individualID := instr.DebitID
		individualName := instr.DebitName
		if fileType == model.FileTypeCredit {
			routing = instr.CreditRouting
			account = instr.CreditAccount
			individualID = instr.CreditID
			individualName = instr.CreditName
		}

		cents := instr.AmountCents()
		totalCents += cents
		entryHash = (entryHash + routingPrefix(routing)) % entryHashModulus

		lines = append(lines, EntryDetail{
			TransactionCode: txnCode,
			ReceivingDFI:    routing[:8],
			CheckDigit:      routing[8:9],
			AccountNumber:   account,
			AmountCents:     cents,
			IndividualID:    individualID,
			IndividualName:  individualName,
			TraceNumber:     a.traceNumber(),
		}.Encode())
	}

	batch := BatchControl{
		ServiceClass: serviceClass,
		EntryCount:   len(instrs),
		EntryHash:    entryHash,
		CompanyID:    a.orig.CompanyID,
		OriginatingDFI: odfi,
		BatchNumber:  1,
	}
	if fileType == model.FileTypeDebit {
		batch.DebitTotalCents = totalCents
	} else {
		batch.CreditTotalCents = totalCents
	}
	lines = append(lines, batch.Encode())

	// The file-level hash sums both routing prefixes of every instruction,
	// regardless of which side the entries drew from, and both dollar totals
	// carry the same aggregate.
	var fileHash int64
	for _, instr := range instrs {
		fileHash = (fileHash + routingPrefix(instr.DebitRouting) + routingPrefix(instr.CreditRouting)) % entryHashModulus
	}

	blockCount := (5 + len(instrs) + blockingFactor - 1) / blockingFactor
	lines = append(lines, FileControl{
		BatchCount:       1,
		BlockCount:       blockCount,
		EntryCount:       len(instrs),
		EntryHash:        fileHash,
		DebitTotalCents:  totalCents,
		CreditTotalCents: totalCents,
	}.Encode())

	for len(lines)%blockingFactor != 0 {
		lines = append(lines, FillerLine())
	}

	return &AssembledFile{
		lines:      lines,
		EntryCount: len(instrs),
		TotalCents: totalCents,
		EntryHash:  entryHash,
		BlockCount: blockCount,
	}
}

// traceNumber builds a 15-digit trace: the originating DFI shifted left seven
// digits plus a random seven-digit tail, zero-padded.
func (a *Assembler) traceNumber() string {
	base := routingPrefix(a.orig.RoutingNumber)*10_000_000 + a.traceRand()
	return format.LeftPad(strconv.FormatInt(base, 10), 15, '0')
}

// routingPrefix returns the first eight digits of a routing number as an
// integer. Routing numbers are validated to nine digits before they reach the
// assembler, so the parse cannot fail on stored data.
func routingPrefix(routing string) int64 {
	if len(routing) < 8 {
		return 0
	}
	n, err := strconv.ParseInt(routing[:8], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
