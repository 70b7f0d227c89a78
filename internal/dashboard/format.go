package dashboard

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders highlight values for a locale and currency.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter builds a Formatter, falling back to English and USD when the
// locale or currency code cannot be parsed.
func NewFormatter(locale, currencyCode string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		unit = currency.USD
	}
	return Formatter{printer: message.NewPrinter(tag), unit: unit}
}

func (f Formatter) ensure() Formatter {
	if f.printer == nil {
		return NewFormatter("en", "USD")
	}
	return f
}

// Count formats an integer with locale grouping.
func (f Formatter) Count(n int) string {
	f = f.ensure()
	return f.printer.Sprintf("%d", n)
}

// Money formats an amount with the configured currency symbol.
func (f Formatter) Money(v float64) string {
	f = f.ensure()
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(v)))
}

// Percent formats an already rounded percentage.
func (f Formatter) Percent(p int) string {
	f = f.ensure()
	return f.printer.Sprintf("%d%%", p)
}

// Minutes formats a duration expressed in whole minutes.
func (f Formatter) Minutes(m int) string {
	f = f.ensure()
	return f.printer.Sprintf("%d min", m)
}
