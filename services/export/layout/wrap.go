package layout

import (
	"strings"
	"unicode/utf8"
)

// WrapWords breaks text into lines no wider than width as measured by measure.
// Explicit newlines are kept, runs of spaces collapse, and a word wider than the
// line is split between characters.
func WrapWords(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		start := len(lines)
		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if measure(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = word
			for measure(line) > width {
				head, rest := splitToWidth(line, width, measure)
				lines = append(lines, head)
				line = rest
			}
		}
		if line != "" || len(lines) == start {
			lines = append(lines, line)
		}
	}

	// drop trailing blank lines left by a trailing newline
	for len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitToWidth cuts s after the longest prefix that fits; at least one rune is kept
// so a pathologically narrow width still makes progress.
func splitToWidth(s string, width float64, measure func(string) float64) (string, string) {
	cut := 0
	for i, r := range s {
		next := i + utf8.RuneLen(r)
		if cut > 0 && measure(s[:next]) > width {
			break
		}
		cut = next
	}
	return s[:cut], s[cut:]
}

// HardWrap splits s into chunks of at most n runes without dropping any character,
// so joining the chunks gives s back.
func HardWrap(s string, n int) []string {
	if n < 1 {
		n = 1
	}
	if s == "" {
		return []string{""}
	}
	var out []string
	for s != "" {
		cut, count := 0, 0
		for i, r := range s {
			if count == n {
				break
			}
			cut = i + utf8.RuneLen(r)
			count++
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	return out
}

// MonoWidth measures text in a fixed-pitch font where every rune is w wide
func MonoWidth(w float64) func(string) float64 {
	return func(s string) float64 {
		return float64(utf8.RuneCountInString(s)) * w
	}
}
