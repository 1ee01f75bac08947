// Package format provides the date and currency formatting helpers shared by
// the client shells.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	dateLayout     = "Jan 2, 2006"
	timeLayout     = "3:04 PM"
	dateTimeLayout = "Jan 2, 2006 3:04 PM"
)

// Date renders a date as "Jan 2, 2006"
func Date(t time.Time) string {
	return t.Format(dateLayout)
}

// Time renders the time-of-day as "3:04 PM"
func Time(t time.Time) string {
	return t.Format(timeLayout)
}

// DateTime renders a full timestamp as "Jan 2, 2006 3:04 PM"
func DateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// RelativeTime renders the distance from now as "5 minutes ago" (or
// "in 5 minutes" for future times)
func RelativeTime(t time.Time, now time.Time) string {
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}

	var phrase string
	switch {
	case d < time.Minute:
		phrase = "less than a minute"
	case d < 2*time.Minute:
		phrase = "1 minute"
	case d < time.Hour:
		phrase = fmt.Sprintf("%d minutes", int(d.Minutes()))
	case d < 2*time.Hour:
		phrase = "1 hour"
	case d < 24*time.Hour:
		phrase = fmt.Sprintf("%d hours", int(d.Hours()))
	case d < 48*time.Hour:
		phrase = "1 day"
	default:
		phrase = fmt.Sprintf("%d days", int(d.Hours()/24))
	}

	if future {
		return "in " + phrase
	}
	return phrase + " ago"
}

// SmartDate renders a timestamp relative to how recent it is:
// today and yesterday get a time of day, this week gets a weekday,
// anything older falls back to Date.
func SmartDate(t time.Time, now time.Time) string {
	days := daysBetween(t, now)
	switch {
	case days == 0:
		return "Today at " + Time(t)
	case days == 1:
		return "Yesterday at " + Time(t)
	case days > 1 && days < 7:
		return t.Format("Monday") + " at " + Time(t)
	default:
		return Date(t)
	}
}

func daysBetween(t, now time.Time) int {
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	start := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	end := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// Currency renders an amount in the given ISO 4217 currency for a locale,
// e.g. Currency(1234.5, "USD", language.AmericanEnglish) == "$ 1,234.50"
func Currency(amount float64, code string, tag language.Tag) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("format.Currency: %w", err)
	}

	p := message.NewPrinter(tag)
	return p.Sprintf("%v", currency.NarrowSymbol(unit.Amount(amount))), nil
}

// Number renders a number with locale-appropriate grouping separators
func Number(value float64, tag language.Tag) string {
	p := message.NewPrinter(tag)
	return p.Sprintf("%v", number(value))
}

func number(value float64) any {
	if value == float64(int64(value)) {
		return int64(value)
	}
	return value
}
