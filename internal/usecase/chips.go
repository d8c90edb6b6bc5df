package usecase

import "strings"

// maxChips caps the quick-reply suggestions returned to the client.
const maxChips = 3

// ParseChips turns the chips model's raw output into at most max short
// suggestion strings. The expected format is pipe-separated ("a | b | c"),
// but models occasionally emit newline-separated lists instead, so both are
// tolerated. Blank entries are dropped rather than padded.
func ParseChips(raw string, max int) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || max <= 0 {
		return nil
	}

	sep := "|"
	if !strings.Contains(raw, "|") {
		sep = "\n"
	}

	var chips []string
	for _, part := range strings.Split(raw, sep) {
		chip := strings.Trim(strings.TrimSpace(part), `"`)
		if chip == "" {
			continue
		}
		chips = append(chips, chip)
		if len(chips) == max {
			break
		}
	}
	return chips
}
