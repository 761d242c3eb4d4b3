package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Excel serial day 0 is 1899-12-30; the Unix epoch sits 25569 days later.
const excelEpochOffsetDays = 25569

var (
	amountJunkPattern = regexp.MustCompile(`[^\d.\-]`)
	dateOnlyPattern   = regexp.MustCompile(`^\d{4}[.\-]\d{1,2}[.\-]\d{1,2}`)
)

// TrimString normalizes a raw cell for identity comparison: whitespace-only
// values collapse to the empty string.
func TrimString(value string) string {
	return strings.TrimSpace(value)
}

func IsBlank(value string) bool {
	return TrimString(value) == ""
}

func TrimLower(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// ParseAmount extracts a money amount from a raw cell. Locale formatting
// ("1,234,000원", "₩50,000") is stripped down to digits, dot and minus before
// parsing. Anything that still fails to parse yields zero; a malformed amount
// must never abort a reconciliation run.
func ParseAmount(value string) decimal.Decimal {
	cleaned := amountJunkPattern.ReplaceAllString(strings.TrimSpace(value), "")
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return decimal.Zero
	}
	dec, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return dec
}

// ParseDecimal converts a plain numeric string, rejecting empty input.
func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, ErrEmptyDecimal
	}
	return decimal.NewFromString(value)
}

// ParseSheetDate normalizes a raw cell to a "YYYY.MM.DD" date string.
//
// Numeric cells are Excel serial dates (day count from 1899-12-30) and are
// converted through the epoch offset. String cells matching
// "YYYY-MM-DD[ HH:MM:SS]" or "YYYY.MM.DD" are truncated to the date part with
// dots as separators. Anything unparseable is returned unchanged.
func ParseSheetDate(value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return excelSerialToTime(serial).Format("2006.01.02")
	}

	if match := dateOnlyPattern.FindString(raw); match != "" {
		return strings.ReplaceAll(match, "-", ".")
	}

	return raw
}

// ParseSheetDateTime is the timestamp-preserving variant used for payment
// timestamps in exports: numeric cells become "YYYY-MM-DD HH:MM:SS", strings
// pass through untouched.
func ParseSheetDateTime(value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return excelSerialToTime(serial).Format("2006-01-02 15:04:05")
	}
	return raw
}

func excelSerialToTime(serial float64) time.Time {
	secs := (serial - excelEpochOffsetDays) * 86400
	return time.Unix(int64(secs), 0).UTC()
}
