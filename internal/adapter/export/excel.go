// Package export renders repayment schedules as spreadsheets.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"loanapp-backend/internal/usecase/repayment"
)

const (
	scheduleSheet = "Schedule"
	summarySheet  = "Loan"
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var scheduleHeadings = []string{"No", "Due Date", "Amount", "Principal", "Interest", "Status", "Paid Date"}

type Excel struct{}

func NewExcel() *Excel { return &Excel{} }

var _ repayment.Exporter = (*Excel)(nil)

// ScheduleWorkbook writes one row per installment plus a loan summary sheet.
func (Excel) ScheduleWorkbook(v *repayment.ScheduleView) (*repayment.Export, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	for i, h := range scheduleHeadings {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(scheduleSheet, cell, h); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(scheduleHeadings), 1)
	if err := f.SetCellStyle(scheduleSheet, "A1", last, bold); err != nil {
		return nil, err
	}

	for i, r := range v.Repayments {
		row := []any{
			r.Number,
			r.DueDate.Format(time.DateOnly),
			r.Amount.InexactFloat64(),
			r.PrincipalPaid.InexactFloat64(),
			r.InterestPaid.InexactFloat64(),
			string(r.Status),
			"",
		}
		if r.PaidDate != nil {
			row[6] = r.PaidDate.Format(time.DateOnly)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(scheduleSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	l := v.Loan
	summary := [][]any{
		{"Loan ID", l.LoanID},
		{"Borrower", l.Requester.FullName},
		{"Application Status", string(l.ApplicationStatus)},
		{"Ledger Status", string(l.Status)},
		{"EMI", l.EMI.InexactFloat64()},
		{"Outstanding Balance", l.OutstandingBalance.InexactFloat64()},
		{"Total Paid", l.TotalPaid.InexactFloat64()},
	}
	if l.ApprovedAmount != nil {
		summary = append(summary, []any{"Approved Amount", l.ApprovedAmount.InexactFloat64()})
	}
	if l.InterestRate != nil {
		summary = append(summary, []any{"Interest Rate (% p.a.)", l.InterestRate.InexactFloat64()})
	}
	if l.TenureMonths != nil {
		summary = append(summary, []any{"Tenure (months)", *l.TenureMonths})
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return &repayment.Export{
		FileName:    fmt.Sprintf("repayment-schedule-%s.xlsx", l.LoanID),
		ContentType: xlsxMIME,
		Content:     buf.Bytes(),
	}, nil
}
