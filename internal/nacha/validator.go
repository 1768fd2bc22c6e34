// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package nacha

import (
	"fmt"
	"strings"

	"github.com/joelmooyoung/Bizpaysol/internal/envelope"
)

// ValidationReport collects every structural violation found in a settlement
// file. Validation never stops at the first problem and never fails with an
// error of its own: any input produces a report.
type ValidationReport struct {
	IsValid bool
	Errors  []string
}

func (r *ValidationReport) add(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// ValidateFileContent checks the structural shape of plain settlement file
// text: minimum line count, record ordering, and record width. Sealed
// envelope content is rejected outright; callers must open the envelope and
// validate the plaintext.
func ValidateFileContent(content string) *ValidationReport {
	report := &ValidationReport{}

	if envelope.IsEncrypted(content) {
		report.add("content is an encrypted envelope; open it before validating")
		return report
	}

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}

	if len(lines) < 4 {
		report.add("file has %d lines, a settlement file needs at least 4", len(lines))
	}

	if len(lines) > 0 && !strings.HasPrefix(lines[0], TypeFileHeader) {
		report.add("line 1 must be a file header (type %s) record", TypeFileHeader)
	}
	if len(lines) > 1 && !strings.HasPrefix(lines[1], TypeBatchHeader) {
		report.add("line 2 must be a batch header (type %s) record", TypeBatchHeader)
	}

	// A transfer may clip the trailing line's padding, so the last line is
	// exempt from the width check.
	for i, line := range lines {
		if i == len(lines)-1 {
			break
		}
		if len(line) != RecordLength {
			report.add("line %d is %d characters, must be %d", i+1, len(line), RecordLength)
		}
	}

	report.IsValid = len(report.Errors) == 0
	return report
}
