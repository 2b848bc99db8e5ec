package leaderboard

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders leaderboard cell values for one locale and shop
// currency.
type Formatter struct {
	tag     language.Tag
	unit    currency.Unit
	printer *message.Printer
	regions display.Namer
}

func NewFormatter(locale, currencyCode string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		unit = currency.USD
	}
	return &Formatter{
		tag:     tag,
		unit:    unit,
		printer: message.NewPrinter(tag),
		regions: display.Regions(tag),
	}
}

// CountryName resolves an ISO 3166-1 alpha-2 code to its localized name,
// falling back to the raw code for unknown or empty input.
func (f *Formatter) CountryName(code string) string {
	if code == "" {
		return code
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	if name := f.regions.Name(region); name != "" {
		return name
	}
	return code
}

func (f *Formatter) Count(n int64) string {
	return f.printer.Sprint(number.Decimal(n))
}

func (f *Formatter) Amount(v float64) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(v)))
}
