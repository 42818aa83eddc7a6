// Package view turns API payloads into render-ready structs. Nothing here
// knows about HTTP or templates.
package view

import (
	"strconv"
	"strings"
	"time"
)

const (
	Dash = "--"

	// DefaultDateLayout mimics the en-US locale date-time rendering.
	DefaultDateLayout = "1/2/2006, 3:04:05 PM"
)

// zoned layouts carry an offset; naive ones are read in the formatter's
// location.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
		time.RFC1123Z,
		time.RFC1123,
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
	}
)

// Formatter renders dates in one location and layout.
type Formatter struct {
	Location *time.Location
	Layout   string
}

func NewFormatter(loc *time.Location, layout string) Formatter {
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return Formatter{Location: loc, Layout: layout}
}

func (f Formatter) loc() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

// Date returns "--" for an empty value, the value itself when it is not a
// recognisable timestamp, and otherwise the formatted local time.
func (f Formatter) Date(value string) string {
	if value == "" {
		return Dash
	}
	t, ok := parseTime(strings.TrimSpace(value), f.loc())
	if !ok {
		return value
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	return t.In(f.loc()).Format(layout)
}

func parseTime(value string, loc *time.Location) (time.Time, bool) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	// date-only strings are UTC midnight
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Amount renders minor units as cents/100 followed by the currency code.
func Amount(cents int64, currency string) string {
	s := strconv.FormatFloat(float64(cents)/100, 'f', -1, 64)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// OrDash substitutes "--" for a missing value.
func OrDash(s string) string {
	if s == "" {
		return Dash
	}
	return s
}
