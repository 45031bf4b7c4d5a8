package util

import (
	"fmt"
	"math"
	"time"
)

const (
	DateTimeFormat = "2006-01-02 15:04:05"
)

func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DateTimeFormat)
}

// FormatHours renders a fractional hour count as "2h 15m".
func FormatHours(hours float64) string {
	if hours <= 0 {
		return "0m"
	}
	total := int(math.Round(hours * 60))
	h, m := total/60, total%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

func FormatAmount(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
