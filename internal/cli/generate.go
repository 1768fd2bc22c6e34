// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joelmooyoung/Bizpaysol/internal/calendar"
	"github.com/joelmooyoung/Bizpaysol/internal/db"
	"github.com/joelmooyoung/Bizpaysol/internal/envelope"
	"github.com/joelmooyoung/Bizpaysol/internal/i18n"
	"github.com/joelmooyoung/Bizpaysol/internal/logging"
	"github.com/joelmooyoung/Bizpaysol/internal/model"
	"github.com/joelmooyoung/Bizpaysol/internal/nacha"
	"github.com/joelmooyoung/Bizpaysol/internal/state"
)

var (
	generateFileType string
	generateDate     string
	generateOutDir   string
)

func init() {
	generateCmd.Flags().StringVarP(&generateFileType, "type", "t", "debit", `Settlement file type ("debit" or "credit")`)
	generateCmd.Flags().StringVarP(&generateDate, "date", "d", "", "Requested effective date (YYYY-MM-DD); defaults to the next business day")
	generateCmd.Flags().StringVarP(&generateOutDir, "output-dir", "o", "", "Directory for the sealed settlement file (defaults to configured output_dir)")
}

// generateCmd assembles all pending instructions into a settlement file,
// seals it, writes it to disk and records it.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a sealed settlement file from pending instructions",
	Long: `Draws every pending payment instruction into a NACHA settlement file,
seals the file into an encrypted envelope, writes it to the output
directory and marks the instructions as processed.

The effective date is normalized to a business day: a requested date that
falls on a weekend or federal holiday moves forward to the next business
day. Without --date the file settles on the next business day after today.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		fileType := model.FileType(generateFileType)
		if !model.ValidFileType(fileType) {
			log.Fatalf("%s", i18n.T("generate.error_type", generateFileType))
		}

		cal := calendar.New()
		var effective time.Time
		if generateDate == "" {
			effective = cal.AddBusinessDays(time.Now().UTC(), 1)
		} else {
			parsed, err := time.Parse("2006-01-02", generateDate)
			if err != nil {
				log.Fatalf("%s", i18n.T("generate.error_date", generateDate))
			}
			effective = parsed
			if !cal.IsBusinessDay(effective) {
				effective = cal.NextBusinessDay(effective)
				fmt.Println(i18n.T("generate.date_moved", effective.Format("2006-01-02")))
			}
		}

		pending, err := db.GetPendingInstructions()
		if err != nil {
			log.Fatalf("%s", i18n.T("generate.error_load", err))
		}
		if len(pending) == 0 {
			log.Fatalf("%s", i18n.T("generate.no_pending"))
		}

		if err := appConfig.Company.Validate(); err != nil {
			log.Fatalf("%s", i18n.T("generate.error_company", err))
		}
		assembler, err := nacha.NewAssembler(nacha.Origination{
			ImmediateDestination: appConfig.Company.ImmediateDestination,
			ImmediateOrigin:      appConfig.Company.ImmediateOrigin,
			CompanyName:          appConfig.Company.Name,
			CompanyID:            appConfig.Company.ID,
			RoutingNumber:        appConfig.Company.RoutingNumber,
			DiscretionaryData:    appConfig.Company.DiscretionaryData,
		})
		if err != nil {
			log.Fatalf("%s", i18n.T("generate.error_company", err))
		}

		svc, err := envelopeService()
		if err != nil {
			log.Fatalf("%v", err)
		}

		seqModifier := state.Sequence.Current()
		assembled := assembler.Assemble(pending, effective, fileType, seqModifier)
		content := assembled.Text()

		ids := make([]int, 0, len(pending))
		var totalAmount float64
		for _, instr := range pending {
			ids = append(ids, instr.ID)
			totalAmount += instr.Amount
		}

		sealed, err := svc.Seal(content, envelope.Metadata{
			InstructionIDs: ids,
			EffectiveDate:  effective.Format("2006-01-02"),
			RecordCount:    assembled.EntryCount,
		})
		if err != nil {
			log.Fatalf("%s", i18n.T("generate.error_seal", err))
		}

		outDir := generateOutDir
		if outDir == "" {
			outDir = appConfig.OutputDir
		}
		if err := os.MkdirAll(outDir, 0755); err != nil {
			log.Fatalf("%s", i18n.T("generate.error_write", err))
		}
		filename := fmt.Sprintf("ach_batch_%s.txt.enc", time.Now().UTC().Format("20060102_150405"))
		path := filepath.Join(outDir, filename)
		// 0600: the envelope is ciphertext, but the file still names money.
		if err := os.WriteFile(path, []byte(sealed), 0600); err != nil {
			log.Fatalf("%s", i18n.T("generate.error_write", err))
		}

		record := model.SettlementFile{
			ID:               uuid.NewString(),
			Filename:         filename,
			InstructionCount: assembled.EntryCount,
			TotalAmount:      totalAmount,
			Checksum:         envelope.Checksum(content),
			SequenceModifier: seqModifier,
			InstructionIDs:   ids,
			CreatedAt:        time.Now().UTC(),
		}
		if err := db.RecordSettlementFile(record); err != nil {
			log.Fatalf("%s", i18n.T("generate.error_record", err))
		}
		if err := db.MarkInstructionsProcessed(ids); err != nil {
			log.Fatalf("%s", i18n.T("generate.error_mark", err))
		}
		state.Sequence.Advance()

		logging.Debugf("generated %s: %d entries, %d lines, hash %d", filename, assembled.EntryCount, len(assembled.Lines()), assembled.EntryHash)
		fmt.Println(i18n.T("generate.success", path, assembled.EntryCount, totalAmount))
		fmt.Println(i18n.T("generate.effective", effective.Format("2006-01-02")))
	},
}
