package report

import (
	"fmt"
	"strings"
	"time"
)

// ConvertDateFormat rewrites a DD/MM/YYYY date as YYYY-MM-DD. Inputs
// that do not match the expected shape are returned unchanged.
func ConvertDateFormat(date string) string {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return date
	}
	for _, part := range parts {
		if part == "" {
			return date
		}
	}
	day, month, year := parts[0], parts[1], parts[2]
	if len(year) != 4 {
		return date
	}
	return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day))
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// FormatDateDDMMYYYY renders a time as DD/MM/YYYY.
func FormatDateDDMMYYYY(t time.Time) string {
	return t.Format("02/01/2006")
}
