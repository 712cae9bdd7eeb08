package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/pricing"
)

const receiptWidth = 40

// Receipt renders a plain text receipt for a recorded sale.
type Receipt struct {
	ShopName string
	Currency string
	Location *time.Location
}

// Write renders s to w.
func (r Receipt) Write(w io.Writer, s *domain.Sale) error {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("-", receiptWidth)
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format+"\n", args...)
	}
	pair := func(label, value string) {
		line("%-16s%24s", label, value)
	}

	if r.ShopName != "" {
		line("%s", center(r.ShopName))
	}
	line("Receipt #%d", s.ID)
	line("Date: %s", s.SaleDate.In(loc).Format("2006-01-02 15:04"))
	line("%s", rule)
	line("%s", s.ProductName)
	line("  %d x %s", s.QuantitySold, pricing.FormatAmount(r.Currency, s.UnitPrice))
	if s.CustomerName != "" {
		line("Customer: %s", s.CustomerName)
	}
	line("%s", rule)
	pair("Subtotal", pricing.FormatAmount(r.Currency, s.SubtotalAmount))
	if s.SurchargeAmount.IsPositive() {
		pair("Card surcharge", pricing.FormatAmount(r.Currency, s.SurchargeAmount))
	}
	if s.DiscountAmount.IsPositive() {
		pair("Discount", "-"+pricing.FormatAmount(r.Currency, s.DiscountAmount))
	}
	pair("Total", pricing.FormatAmount(r.Currency, s.FinalAmount))
	line("%s", rule)
	line("Payment: %s (%s)", s.PaymentMethod, s.PaymentStatus)
	if s.Notes != "" {
		line("Notes: %s", s.Notes)
	}
	return bw.Flush()
}

func center(s string) string {
	if len(s) >= receiptWidth {
		return s
	}
	return strings.Repeat(" ", (receiptWidth-len(s))/2) + s
}
