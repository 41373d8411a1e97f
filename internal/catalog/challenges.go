package catalog

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	customMsPerChar   = 500
	customMinLimitMs  = 8000
	customDescription = "Custom challenge."
)

// LoadChallengeTexts reads one challenge text per line from path.
// Blank lines and lines starting with '#' are skipped.
func LoadChallengeTexts(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only challenge file.
			_ = cerr
		}
	}()

	var texts []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		texts = append(texts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("challenge file is empty")
	}
	return texts, nil
}

// CustomChallenges turns plain texts into challenge definitions with a time
// limit proportional to their length.
func CustomChallenges(texts []string) []ChallengeDef {
	defs := make([]ChallengeDef, 0, len(texts))
	for i, text := range texts {
		limit := int64(utf8.RuneCountInString(text)) * customMsPerChar
		if limit < customMinLimitMs {
			limit = customMinLimitMs
		}
		defs = append(defs, ChallengeDef{
			ID:          fmt.Sprintf("custom-%d", i+1),
			Text:        text,
			TimeLimitMs: limit,
			Description: customDescription,
		})
	}
	return defs
}
