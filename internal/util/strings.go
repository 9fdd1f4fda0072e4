package util

// Truncate caps s at max runes, replacing the tail with "..." when it does
// not fit. Cutting happens on rune boundaries so multi-byte content never
// ends up split mid-character.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
