package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes renders a challenge text with the first progress runes
// marked as typed. A started challenge shows the cursor at progress; an
// awaiting one dims the whole text.
func buildStyledRunes(text []rune, progress int, started bool) []styledRune {
	cursorIndex := -1
	if started && progress < len(text) {
		cursorIndex = progress
	}
	words := findWords(text)
	current := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(text))
	for i, r := range text {
		style := pendingStyle
		switch {
		case !started:
			style = awaitingStyle
		case i < progress:
			style = correctStyle
		case r != ' ' && current != nil && i >= current.start && i < current.end:
			style = currentWordStyle
		}
		if i == cursorIndex {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(text []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range text {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(text)})
	}
	return words
}

// wordForCursor returns the word containing the cursor or, between words,
// the next one. Without a cursor there is no current word.
func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits width, or mid-word
// when a single word is wider than the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width <= width || len(line) == 0 {
			line = append(line, item)
			lineWidth += item.width
			if item.isSpace {
				lastSpace = len(line) - 1
			}
			i++
			continue
		}
		if lastSpace < 0 {
			out.WriteString(renderStyledRunes(line))
			out.WriteRune('\n')
			line = line[:0]
		} else {
			out.WriteString(renderStyledRunes(line[:lastSpace]))
			out.WriteRune('\n')
			line = append([]styledRune{}, line[lastSpace+1:]...)
		}
		lineWidth = 0
		lastSpace = -1
		for j, r := range line {
			lineWidth += r.width
			if r.isSpace {
				lastSpace = j
			}
		}
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}
