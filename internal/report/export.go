package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/pricing"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const (
	exportDateLayout = "2006-01-02 15:04:05"
	xlsxSheet        = "Sales"
)

// SaleRow is one line of the sales export.
type SaleRow struct {
	SaleID        string `csv:"Sale ID"`
	ProductID     string `csv:"Product ID"`
	CustomerName  string `csv:"Customer Name"`
	CustomerEmail string `csv:"Customer Email"`
	Quantity      int    `csv:"Quantity"`
	UnitPrice     string `csv:"Unit Price"`
	TotalAmount   string `csv:"Total Amount"`
	Discount      string `csv:"Discount"`
	FinalAmount   string `csv:"Final Amount"`
	PaymentMethod string `csv:"Payment Method"`
	Status        string `csv:"Status"`
	Date          string `csv:"Date"`
	Notes         string `csv:"Notes"`
}

var exportHeaders = []string{
	"Sale ID", "Product ID", "Customer Name", "Customer Email", "Quantity",
	"Unit Price", "Total Amount", "Discount", "Final Amount",
	"Payment Method", "Status", "Date", "Notes",
}

func (r SaleRow) values() []interface{} {
	return []interface{}{
		r.SaleID, r.ProductID, r.CustomerName, r.CustomerEmail, r.Quantity,
		r.UnitPrice, r.TotalAmount, r.Discount, r.FinalAmount,
		r.PaymentMethod, r.Status, r.Date, r.Notes,
	}
}

// Rows converts sales to export rows, dates rendered in loc.
func Rows(sales []domain.Sale, loc *time.Location) []*SaleRow {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]*SaleRow, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, &SaleRow{
			SaleID:        strconv.FormatInt(s.ID, 10),
			ProductID:     strconv.FormatInt(s.ProductID, 10),
			CustomerName:  s.CustomerName,
			CustomerEmail: s.CustomerEmail,
			Quantity:      s.QuantitySold,
			UnitPrice:     s.UnitPrice.StringFixed(pricing.AmountPlaces),
			TotalAmount:   s.TotalAmount.StringFixed(pricing.AmountPlaces),
			Discount:      s.DiscountAmount.StringFixed(pricing.AmountPlaces),
			FinalAmount:   s.FinalAmount.StringFixed(pricing.AmountPlaces),
			PaymentMethod: string(s.PaymentMethod),
			Status:        string(s.PaymentStatus),
			Date:          s.SaleDate.In(loc).Format(exportDateLayout),
			Notes:         s.Notes,
		})
	}
	return rows
}

// WriteCSV writes the sales as CSV with a header line.
func WriteCSV(w io.Writer, sales []domain.Sale, loc *time.Location) error {
	rows := Rows(sales, loc)
	return gocsv.Marshal(&rows, w)
}

// WriteXLSX writes the sales as a single sheet workbook.
func WriteXLSX(w io.Writer, sales []domain.Sale, loc *time.Location) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", xlsxSheet)
	for i, h := range exportHeaders {
		f.SetCellValue(xlsxSheet, cellName(i, 1), h)
	}
	for n, row := range Rows(sales, loc) {
		for i, v := range row.values() {
			f.SetCellValue(xlsxSheet, cellName(i, n+2), v)
		}
	}
	return f.Write(w)
}

// Export writes sales in the named format.
func Export(w io.Writer, format string, sales []domain.Sale, loc *time.Location) error {
	switch NormalizeFormat(format) {
	case FormatCSV:
		return WriteCSV(w, sales, loc)
	case FormatXLSX:
		return WriteXLSX(w, sales, loc)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// NormalizeFormat lower-cases format, defaulting to csv.
func NormalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return FormatCSV
	}
	return format
}

// ExportFilename is sales-report-YYYY-MM-DD.<format>.
func ExportFilename(format string, day time.Time) string {
	return fmt.Sprintf("sales-report-%s.%s", day.Format("2006-01-02"), NormalizeFormat(format))
}

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	if NormalizeFormat(format) == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// cellName builds A1 style names; columns stay within A..Z.
func cellName(col, row int) string {
	return string(rune('A'+col)) + strconv.Itoa(row)
}
