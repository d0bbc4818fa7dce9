package framer

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// decode converts child output to text. Invalid UTF-8 is replaced with
// U+FFFD; decoding never fails.
func decode(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}

	return string(out)
}
