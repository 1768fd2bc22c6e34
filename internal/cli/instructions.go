// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"regexp"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/joelmooyoung/Bizpaysol/internal/db"
	"github.com/joelmooyoung/Bizpaysol/internal/i18n"
	"github.com/joelmooyoung/Bizpaysol/internal/model"
)

var (
	submitDebitRouting  string
	submitDebitAccount  string
	submitDebitID       string
	submitDebitName     string
	submitCreditRouting string
	submitCreditAccount string
	submitCreditID      string
	submitCreditName    string
	submitAmount        float64
	submitEffectiveDate string

	listAll bool
)

var routingFlagPattern = regexp.MustCompile(`^\d{9}$`)

func init() {
	submitCmd.Flags().StringVar(&submitDebitRouting, "debit-routing", "", "Debit-side routing number (9 digits)")
	submitCmd.Flags().StringVar(&submitDebitAccount, "debit-account", "", "Debit-side account number")
	submitCmd.Flags().StringVar(&submitDebitID, "debit-id", "", "Debit-side individual identifier")
	submitCmd.Flags().StringVar(&submitDebitName, "debit-name", "", "Debit-side individual name")
	submitCmd.Flags().StringVar(&submitCreditRouting, "credit-routing", "", "Credit-side routing number (9 digits)")
	submitCmd.Flags().StringVar(&submitCreditAccount, "credit-account", "", "Credit-side account number")
	submitCmd.Flags().StringVar(&submitCreditID, "credit-id", "", "Credit-side individual identifier")
	submitCmd.Flags().StringVar(&submitCreditName, "credit-name", "", "Credit-side individual name")
	submitCmd.Flags().Float64Var(&submitAmount, "amount", 0, "Amount in decimal currency units")
	submitCmd.Flags().StringVar(&submitEffectiveDate, "effective-date", "", "Requested effective date (YYYY-MM-DD)")
	for _, f := range []string{"debit-routing", "debit-account", "debit-name", "credit-routing", "credit-account", "credit-name", "amount"} {
		_ = submitCmd.MarkFlagRequired(f)
	}

	listCmd.Flags().BoolVar(&listAll, "all", false, "Include processed instructions")
}

// submitCmd stores one payment instruction as pending.
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a payment instruction",
	Long: `Stores a single payment instruction (a debit side, a credit side, and an
amount) as pending. Pending instructions are drawn into the next generated
settlement file.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		instr := model.PaymentInstruction{
			DebitRouting:  submitDebitRouting,
			DebitAccount:  submitDebitAccount,
			DebitID:       submitDebitID,
			DebitName:     submitDebitName,
			CreditRouting: submitCreditRouting,
			CreditAccount: submitCreditAccount,
			CreditID:      submitCreditID,
			CreditName:    submitCreditName,
			Amount:        submitAmount,
		}
		if err := validateInstruction(instr); err != nil {
			log.Fatalf("%s", i18n.T("submit.error_invalid", err))
		}

		instr.EffectiveDate = time.Now().UTC().Truncate(24 * time.Hour)
		if submitEffectiveDate != "" {
			parsed, err := time.Parse("2006-01-02", submitEffectiveDate)
			if err != nil {
				log.Fatalf("%s", i18n.T("submit.error_date", submitEffectiveDate))
			}
			instr.EffectiveDate = parsed
		}

		id, err := db.AddInstruction(instr)
		if err != nil {
			log.Fatalf("%s", i18n.T("submit.error_store", err))
		}
		fmt.Println(i18n.T("submit.success", id, instr.Amount))
	},
}

// validateInstruction applies the invariants the settlement core assumes:
// nine-digit routing numbers on both sides and a positive amount.
func validateInstruction(instr model.PaymentInstruction) error {
	if !routingFlagPattern.MatchString(instr.DebitRouting) {
		return fmt.Errorf("debit routing number must be exactly 9 digits")
	}
	if !routingFlagPattern.MatchString(instr.CreditRouting) {
		return fmt.Errorf("credit routing number must be exactly 9 digits")
	}
	if instr.DebitAccount == "" || instr.CreditAccount == "" {
		return fmt.Errorf("both account numbers are required")
	}
	if instr.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}

// listCmd prints stored instructions.
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List payment instructions",
	Long:    `Lists pending payment instructions. With --all, processed instructions are included.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			instrs []model.PaymentInstruction
			err    error
		)
		if listAll {
			instrs, err = db.GetAllInstructions()
		} else {
			instrs, err = db.GetPendingInstructions()
		}
		if err != nil {
			log.Fatalf("%s", i18n.T("list.error", err))
		}
		if len(instrs) == 0 {
			fmt.Println(i18n.T("list.none"))
			return
		}
		for _, instr := range instrs {
			fmt.Printf("%s  [%s]  effective %s\n", instr.String(), instr.Status, instr.EffectiveDate.Format("2006-01-02"))
		}
		fmt.Println(i18n.T("list.count", len(instrs)))
	},
}

// filesCmd prints recorded settlement files, newest first.
var filesCmd = &cobra.Command{
	Use:     "files",
	Short:   "List generated settlement files",
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		files, err := db.GetAllSettlementFiles()
		if err != nil {
			log.Fatalf("%s", i18n.T("files.error", err))
		}
		if len(files) == 0 {
			fmt.Println(i18n.T("files.none"))
			return
		}
		for _, f := range files {
			fmt.Printf("%s  instructions=%d  total=$%.2f  seq=%d  created=%s\n",
				f.Filename, f.InstructionCount, f.TotalAmount, f.SequenceModifier,
				f.CreatedAt.Format(time.RFC3339))
		}
	},
}
