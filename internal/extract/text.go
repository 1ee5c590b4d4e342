package extract

import (
	"strings"
)

// ExtractText decodes raw bytes as UTF-8 and trims surrounding whitespace.
// Malformed sequences are replaced with U+FFFD rather than rejected, so this
// strategy never fails.
func ExtractText(data []byte) string {
	s := strings.ToValidUTF8(string(data), "�")
	return strings.TrimSpace(s)
}
