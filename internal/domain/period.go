package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// YearMonth identifies one calendar month of one year.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses the "2006-01" wire form.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}

	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// YearMonthOf returns the period containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// String renders the "2006-01" wire form.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// Contains reports whether t falls inside the period.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// Bounds returns the half-open UTC time range [start, end) of the period.
func (ym YearMonth) Bounds() (time.Time, time.Time) {
	start := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// ClosedPeriod marks one (company, month) as terminally closed. There is no
// reopen operation; once this record exists the month rejects new postings.
type ClosedPeriod struct {
	ClosedAt   time.Time
	ID         string
	CompanyRUT string
	Period     YearMonth
	ClosedBy   string
	ProfitLoss decimal.Decimal
}
