package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is shown in front of formatted amounts.
const DefaultCurrency = "LKR"

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount as "LKR 1,234.56".
func FormatAmount(currency string, amount decimal.Decimal) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	f, _ := amount.Round(AmountPlaces).Float64()
	return currency + " " + printer.Sprintf("%v", number.Decimal(f, number.Scale(int(AmountPlaces))))
}
