package domain

import "strings"

// AppendLine returns lines with the trimmed input appended. Blank input
// returns lines unchanged.
func AppendLine(lines []string, input string) []string {
	v := strings.TrimSpace(input)
	if v == "" {
		return lines
	}
	out := make([]string, len(lines), len(lines)+1)
	copy(out, lines)
	return append(out, v)
}

// RemoveLine returns a copy of lines without the entry at index. Later entries
// shift back by one. An out of range index returns lines unchanged.
func RemoveLine(lines []string, index int) []string {
	if index < 0 || index >= len(lines) {
		return lines
	}
	out := make([]string, 0, len(lines)-1)
	out = append(out, lines[:index]...)
	return append(out, lines[index+1:]...)
}
