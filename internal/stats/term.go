package stats

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	terminalWidthBackup = 80
	minCurveWidth       = 10
	maxCurveWidth       = 120
)

// TerminalWidth returns the width of w when it is a terminal, or zero.
func TerminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// CurveWidthFor picks the curve width for a terminal of totalWidth columns.
// Zero means the output is not a terminal and the curve is not resampled.
func CurveWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return 0
	}
	return max(minCurveWidth, min(totalWidth, maxCurveWidth))
}
