package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxLen = 50

// stripMarks decomposes to NFD and drops combining marks, which covers
// Vietnamese tone/vowel diacritics. đ/Đ are standalone letters, not
// composed forms, so they are mapped by hand first.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var dReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

// Normalize turns arbitrary text into a URL-safe identifier: ASCII,
// lowercase, hyphen-delimited, at most 50 characters. It never fails;
// text with no usable characters yields "image".
func Normalize(text string) string {
	text = dReplacer.Replace(text)
	if ascii, _, err := transform.String(stripMarks, text); err == nil {
		text = ascii
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	lastHyphen := true // suppresses a leading hyphen
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	s := strings.TrimRight(b.String(), "-")
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	if s == "" {
		return "image"
	}
	return s
}
