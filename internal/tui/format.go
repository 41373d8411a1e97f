package tui

import (
	"fmt"
	"math"
	"time"
)

var amountSuffixes = []string{"", "K", "M", "B", "T", "Qa", "Qi"}

// formatAmount prints whole numbers below a thousand as-is and larger ones
// with two decimals and a short-scale suffix.
func formatAmount(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "∞"
	}
	if math.Abs(v) < 1000 {
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.1f", v)
	}
	idx := 0
	for math.Abs(v) >= 1000 && idx < len(amountSuffixes)-1 {
		v /= 1000
		idx++
	}
	return fmt.Sprintf("%.2f%s", v, amountSuffixes[idx])
}

func formatRate(v float64) string {
	return formatAmount(v) + "/s"
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
