// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package nacha

import (
	"strings"
	"testing"

	"github.com/joelmooyoung/Bizpaysol/internal/envelope"
	"github.com/joelmooyoung/Bizpaysol/internal/model"
)

func TestValidateGeneratedFile(t *testing.T) {
	a := testAssembler(t)
	f := a.Assemble([]model.PaymentInstruction{testInstruction(1, 25.00)}, effectiveDate(), model.FileTypeDebit, 1)

	report := ValidateFileContent(f.Text())
	if !report.IsValid {
		t.Fatalf("generated file must validate, got errors: %v", report.Errors)
	}
	if len(report.Errors) != 0 {
		t.Errorf("valid report must carry no errors, got %v", report.Errors)
	}

	// A trailing newline from file storage must not break validation.
	report = ValidateFileContent(f.Text() + "\n")
	if !report.IsValid {
		t.Errorf("trailing newline must be tolerated, got errors: %v", report.Errors)
	}
}

func TestValidateRejectsEncryptedContent(t *testing.T) {
	svc, err := envelope.New("validator-test-secret")
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := svc.Seal(strings.Repeat("1", 94), envelope.Metadata{RecordCount: 1})
	if err != nil {
		t.Fatal(err)
	}

	report := ValidateFileContent(sealed)
	if report.IsValid {
		t.Fatal("sealed envelope content must not validate as plain text")
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "encrypted") {
		t.Errorf("want a single encrypted-content error, got %v", report.Errors)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	// Wrong leading types and a short interior line, all at once.
	lines := []string{
		strings.Repeat("5", 94),
		strings.Repeat("1", 94),
		strings.Repeat("6", 40),
		strings.Repeat("8", 94),
		strings.Repeat("9", 94),
	}
	report := ValidateFileContent(strings.Join(lines, "\n"))
	if report.IsValid {
		t.Fatal("malformed file must not validate")
	}
	if len(report.Errors) != 3 {
		t.Errorf("want 3 violations (two record types, one width), got %d: %v", len(report.Errors), report.Errors)
	}
}

func TestValidateMinimumLines(t *testing.T) {
	report := ValidateFileContent(strings.Repeat("1", 94) + "\n" + strings.Repeat("5", 94))
	if report.IsValid {
		t.Fatal("two-line file must not validate")
	}
	found := false
	for _, e := range report.Errors {
		if strings.Contains(e, "at least 4") {
			found = true
		}
	}
	if !found {
		t.Errorf("want a minimum-line violation, got %v", report.Errors)
	}
}

func TestValidateEmptyContent(t *testing.T) {
	report := ValidateFileContent("")
	if report.IsValid {
		t.Fatal("empty content must not validate")
	}
}

func TestValidateLastLineWidthExempt(t *testing.T) {
	lines := []string{
		strings.Repeat("1", 94),
		strings.Repeat("5", 94),
		strings.Repeat("8", 94),
		strings.Repeat("9", 90), // clipped trailing padding
	}
	report := ValidateFileContent(strings.Join(lines, "\n"))
	if !report.IsValid {
		t.Errorf("short final line must be tolerated, got errors: %v", report.Errors)
	}
}
