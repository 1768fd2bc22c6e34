// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"strconv"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/joelmooyoung/Bizpaysol/internal/calendar"
	"github.com/joelmooyoung/Bizpaysol/internal/i18n"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Business-day calendar queries",
}

func init() {
	calendarCmd.AddCommand(calendarCheckCmd, calendarNextCmd, calendarAddCmd)
}

func parseCalendarDate(s string) (time.Time, error) {
	if s == "" || s == "today" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}

var calendarCheckCmd = &cobra.Command{
	Use:   "check [date]",
	Short: "Report whether a date is a business day",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		date, err := parseCalendarDate(arg)
		if err != nil {
			log.Fatalf("%s", i18n.T("calendar.error_date", arg))
		}

		cal := calendar.New()
		day := date.Format("2006-01-02")
		if name, ok := cal.Holiday(date); ok {
			fmt.Println(i18n.T("calendar.holiday", day, name))
			return
		}
		if cal.IsBusinessDay(date) {
			fmt.Println(i18n.T("calendar.business_day", day))
		} else {
			fmt.Println(i18n.T("calendar.weekend", day))
		}
	},
}

var calendarNextCmd = &cobra.Command{
	Use:   "next [date]",
	Short: "Print the next business day strictly after a date",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		date, err := parseCalendarDate(arg)
		if err != nil {
			log.Fatalf("%s", i18n.T("calendar.error_date", arg))
		}
		next := calendar.New().NextBusinessDay(date)
		fmt.Println(i18n.T("calendar.next", date.Format("2006-01-02"), next.Format("2006-01-02")))
	},
}

var calendarAddCmd = &cobra.Command{
	Use:   "add <n> [date]",
	Short: "Print the date n business days after a date",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			log.Fatalf("%s", i18n.T("calendar.error_count", args[0]))
		}
		arg := ""
		if len(args) > 1 {
			arg = args[1]
		}
		date, err := parseCalendarDate(arg)
		if err != nil {
			log.Fatalf("%s", i18n.T("calendar.error_date", arg))
		}
		result := calendar.New().AddBusinessDays(date, n)
		fmt.Println(i18n.T("calendar.add", n, date.Format("2006-01-02"), result.Format("2006-01-02")))
	},
}
