package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/nominahr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Payslip holds everything the rendered document needs. Amounts are the
// exact persisted detail values; rounding to two decimals happens only here.
type Payslip struct {
	CompanyName  string
	EmployeeName string
	EmployeeCode string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	PeriodDays   int
	Detail       payroll.Detail
	GeneratedAt  time.Time
}

// RenderPayslip writes a single-page A4 payslip PDF to w.
func RenderPayslip(w io.Writer, slip Payslip) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(0, 10, slip.CompanyName, "", 1, "C", false, 0, "")

	doc.SetFont("Arial", "", 11)
	doc.CellFormat(0, 7, "Payslip", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Arial", "", 10)
	writeRow(doc, "Employee", fmt.Sprintf("%s (%s)", slip.EmployeeName, slip.EmployeeCode))
	writeRow(doc, "Period", fmt.Sprintf("%s to %s (%d days)",
		slip.PeriodStart.Format("2006-01-02"), slip.PeriodEnd.Format("2006-01-02"), slip.PeriodDays))
	writeRow(doc, "Generated", slip.GeneratedAt.Format("2006-01-02 15:04"))
	doc.Ln(6)

	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(120, 8, "Earnings", "B", 0, "L", false, 0, "")
	doc.CellFormat(60, 8, "Amount", "B", 1, "R", false, 0, "")
	doc.SetFont("Arial", "", 10)
	writeAmount(doc, "Base salary (prorated)", slip.Detail.BaseSalary)
	writeAmount(doc, "Transportation allowance", slip.Detail.TransportationAllowance)
	doc.SetFont("Arial", "B", 10)
	writeAmount(doc, "Gross", slip.Detail.GrossSalary)
	doc.Ln(4)

	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(120, 8, "Deductions", "B", 0, "L", false, 0, "")
	doc.CellFormat(60, 8, "Amount", "B", 1, "R", false, 0, "")
	doc.SetFont("Arial", "", 10)
	writeAmount(doc, "Health contribution", slip.Detail.HealthContribution)
	writeAmount(doc, "Pension contribution", slip.Detail.PensionContribution)
	writeAmount(doc, "Solidarity fund", slip.Detail.SolidarityFund)
	doc.SetFont("Arial", "B", 10)
	writeAmount(doc, "Total deductions", slip.Detail.TotalDeductions)
	doc.Ln(6)

	doc.SetFont("Arial", "B", 12)
	writeAmount(doc, "Net pay", slip.Detail.NetSalary)

	return doc.Output(w)
}

func writeRow(doc *gofpdf.Fpdf, label, value string) {
	doc.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
	doc.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func writeAmount(doc *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	doc.CellFormat(120, 7, label, "", 0, "L", false, 0, "")
	doc.CellFormat(60, 7, amount.StringFixed(2), "", 1, "R", false, 0, "")
}
