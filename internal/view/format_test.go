package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatter_Date(t *testing.T) {
	utc := NewFormatter(time.UTC, "")
	east := NewFormatter(time.FixedZone("EST", -5*3600), "")

	tests := []struct {
		name string
		f    Formatter
		in   string
		want string
	}{
		{name: "empty", f: utc, in: "", want: "--"},
		{name: "not a date", f: utc, in: "not-a-date", want: "not-a-date"},
		{name: "rfc3339 utc", f: utc, in: "2024-01-01T00:00:00Z", want: "1/1/2024, 12:00:00 AM"},
		{name: "rfc3339 shifted", f: east, in: "2024-01-01T00:00:00Z", want: "12/31/2023, 7:00:00 PM"},
		{name: "offset and micros", f: utc, in: "2024-06-15T13:45:30.123456+02:00", want: "6/15/2024, 11:45:30 AM"},
		{name: "space separated with offset", f: utc, in: "2024-06-15 13:45:30.5+00:00", want: "6/15/2024, 1:45:30 PM"},
		{name: "naive read in location", f: east, in: "2024-03-05T14:07:09", want: "3/5/2024, 2:07:09 PM"},
		{name: "naive space separated", f: utc, in: "2024-03-05 14:07:09", want: "3/5/2024, 2:07:09 PM"},
		{name: "date only is utc midnight", f: utc, in: "2024-01-01", want: "1/1/2024, 12:00:00 AM"},
		{name: "custom layout", f: NewFormatter(time.UTC, time.DateTime), in: "2024-01-01T08:09:10Z", want: "2024-01-01 08:09:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Date(tt.in))
		})
	}
}

func TestFormatter_ZeroValueUsable(t *testing.T) {
	var f Formatter
	assert.NotEmpty(t, f.Date("2024-01-01T00:00:00Z"))
	assert.NotEqual(t, "2024-01-01T00:00:00Z", f.Date("2024-01-01T00:00:00Z"))
}

func TestAmount(t *testing.T) {
	tests := []struct {
		cents    int64
		currency string
		want     string
	}{
		{1999, "USD", "19.99 USD"},
		{1000, "USD", "10 USD"},
		{5, "EUR", "0.05 EUR"},
		{0, "USD", "0 USD"},
		{-250, "USD", "-2.5 USD"},
		{1234, "", "12.34"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Amount(tt.cents, tt.currency))
	}
}

func TestYesNoAndOrDash(t *testing.T) {
	assert.Equal(t, "Yes", YesNo(true))
	assert.Equal(t, "No", YesNo(false))
	assert.Equal(t, "--", OrDash(""))
	assert.Equal(t, "alice", OrDash("alice"))
}
