package usecase

import "unicode/utf8"

// Lengths throughout the export pipeline are counted in characters, not bytes

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncateRunes returns the first n characters of s
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
