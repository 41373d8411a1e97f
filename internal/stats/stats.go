// Package stats contains challenge history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/keyidle/internal/model"
)

const sparkChars = " .:-=+*#%@"

// ChallengeWPM computes words per minute for a completed challenge, counting
// five characters as one word.
func ChallengeWPM(textLength int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	minutes := float64(durationMs) / 60000.0
	return (float64(textLength) / 5.0) / minutes
}

// SuccessRate returns completed/(completed+failed), or 0 without attempts.
func SuccessRate(completed, failed int) float64 {
	total := completed + failed
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample averages values down to at most width points.
func Resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// RenderSummary prints totals for the challenge history.
func RenderSummary(w io.Writer, results []model.ChallengeResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No challenges found.")
		return err
	}
	completed, failed := 0, 0
	var totalWPM, bestWPM, reward float64
	reasons := map[string]int{}
	for _, r := range results {
		reward += r.Reward
		if !r.Completed {
			failed++
			reasons[r.Reason]++
			continue
		}
		completed++
		wpm := ChallengeWPM(r.TextLength, r.DurationMs)
		totalWPM += wpm
		bestWPM = math.Max(bestWPM, wpm)
	}
	avgWPM := 0.0
	if completed > 0 {
		avgWPM = totalWPM / float64(completed)
	}

	lines := []string{
		"Summary",
		fmt.Sprintf("Challenges: %d", len(results)),
		fmt.Sprintf("Completed: %d", completed),
		fmt.Sprintf("Failed: %d%s", failed, formatReasons(reasons)),
		fmt.Sprintf("Success Rate: %.2f%%", SuccessRate(completed, failed)*100),
		fmt.Sprintf("Avg WPM: %.2f", avgWPM),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Total Reward: %.0f", reward),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatReasons(reasons map[string]int) string {
	if len(reasons) == 0 {
		return ""
	}
	keys := make([]string, 0, len(reasons))
	for k := range reasons {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, reasons[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// RenderCurve prints moving-average sparklines for WPM and success rate.
// width limits the sparkline length; zero means unlimited.
func RenderCurve(w io.Writer, results []model.ChallengeResult, window, width int) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	success := make([]float64, len(results))
	for i, r := range results {
		if r.Completed {
			wpms[i] = ChallengeWPM(r.TextLength, r.DurationMs)
			success[i] = 100
		}
	}
	wpms = MovingAverage(wpms, window)
	success = MovingAverage(success, window)

	labelWidth := runewidth.StringWidth("Success ")
	if width > 0 {
		width -= labelWidth + 2
		if width < 1 {
			width = 1
		}
		wpms = Resample(wpms, width)
		success = Resample(success, width)
	}
	lines := []string{
		fmt.Sprintf("Learning Curve (window %d)", window),
		runewidth.FillRight("WPM", labelWidth) + "|" + Sparkline(wpms) + "|",
		runewidth.FillRight("Success", labelWidth) + "|" + Sparkline(success) + "|",
		fmt.Sprintf("Last: %.2f WPM, %.0f%% success", wpms[len(wpms)-1], success[len(success)-1]),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderChallengeTable prints per-challenge aggregates, lowest success first.
func RenderChallengeTable(w io.Writer, aggs []model.ChallengeAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No challenge stats found.")
		return err
	}
	rows := make([]model.ChallengeAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		ri := SuccessRate(rows[i].Completed, rows[i].Failed)
		rj := SuccessRate(rows[j].Completed, rows[j].Failed)
		if ri == rj {
			return rows[i].ChallengeID < rows[j].ChallengeID
		}
		return ri < rj
	})

	if _, err := fmt.Fprintln(w, "Per-Challenge (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Challenge", "Success", "Avg WPM", "Best (s)", "Completed", "Failed"}
	tableRows := make([][]string, 0, len(rows))
	for _, agg := range rows {
		best := "-"
		if agg.BestMs > 0 {
			best = fmt.Sprintf("%.1f", float64(agg.BestMs)/1000)
		}
		tableRows = append(tableRows, []string{
			agg.ChallengeID,
			fmt.Sprintf("%.2f%%", SuccessRate(agg.Completed, agg.Failed)*100),
			fmt.Sprintf("%.1f", ChallengeWPM(agg.CharsTyped, agg.DurationMs)),
			best,
			fmt.Sprintf("%d", agg.Completed),
			fmt.Sprintf("%d", agg.Failed),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
