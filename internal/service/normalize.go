package service

import "strings"

// Honorific prefixes recognised during name normalization. Matching is
// case-insensitive and only applies when more name words follow.
var honorifics = map[string]struct{}{
	"sir":  {},
	"miss": {},
	"mrs":  {},
	"mr":   {},
	"dr":   {},
}

// NormalizeName canonicalizes a raw teacher name: outer whitespace is
// trimmed, internal runs collapse to single spaces, a recognised
// honorific prefix is lowered, then every word-initial character is
// upper-cased. The honorific therefore comes out with only its first
// letter capitalised ("MR john" -> "Mr John"). ASCII case rules only.
// The result is stable under repeated application; an all-whitespace
// input yields "".
func NormalizeName(raw string) string {
	words := strings.Fields(raw)
	if len(words) == 0 {
		return ""
	}

	if len(words) > 1 {
		if _, ok := honorifics[strings.ToLower(words[0])]; ok {
			words[0] = strings.ToLower(words[0])
		}
	}

	return titleCaseASCII(strings.Join(words, " "))
}

// Initials derives a display abbreviation from a name: the upper-cased
// first character of every whitespace-separated token, concatenated.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		b.WriteByte(upperASCII(word[0]))
	}
	return b.String()
}

// titleCaseASCII upper-cases each character that starts a word run,
// leaving all other characters untouched. Hyphenated and apostrophed
// names get every segment capitalised ("anne-marie" -> "Anne-Marie").
func titleCaseASCII(s string) string {
	b := []byte(s)
	prevWord := false
	for i, c := range b {
		isWord := c == '_' ||
			(c >= '0' && c <= '9') ||
			(c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z')
		if isWord && !prevWord {
			b[i] = upperASCII(c)
		}
		prevWord = isWord
	}
	return string(b)
}

func upperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
