package util

import (
	"regexp"
	"strings"
)

var (
	RgxEmail = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
)

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func IsEmail(value string) bool {
	if len(value) > 254 {
		return false
	}

	return RgxEmail.MatchString(value)
}

// NormalizePhone converts a phone number in any common written form to
// E.164. Non-digit characters are stripped, a 10-digit national number
// gets the country code 1 prepended, and the result is prefixed with
// "+". Already-normalized numbers pass through unchanged.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) == 10 {
		digits = "1" + digits
	} else if !strings.HasPrefix(digits, "1") {
		digits = "1" + digits
	}

	return "+" + digits
}

// ChunkStrings splits items into consecutive groups of at most size
// elements, preserving order. A size <= 0 yields a single chunk.
func ChunkStrings(items []string, size int) [][]string {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]string{items}
	}

	var chunks [][]string
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
