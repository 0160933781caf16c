// Package format renders catalog values for display.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en-US"

// Formatter renders prices with the grouping rules of a locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter parses a BCP 47 locale such as "en-US" or "de-DE".
func NewFormatter(locale string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{tag: tag, printer: message.NewPrinter(tag)}, nil
}

// Locale returns the parsed locale tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Number renders an amount rounded to whole units with thousands separators.
func (f *Formatter) Number(amount float64) string {
	return f.printer.Sprintf("%d", int64(math.Round(amount)))
}

// Price renders an amount as a dollar price, e.g. "$2,500,000".
func (f *Formatter) Price(amount float64) string {
	return "$" + f.Number(amount)
}
