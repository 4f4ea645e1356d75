package l10n

import "strings"

// ParseLine extracts the key and value from a single patch line such as
//
//	-"greeting" = "Hello";
//
// The leading diff marker is dropped and everything from the first ';' on is
// discarded. The remainder is split on the first '=' and both halves are
// trimmed and unquoted. ok is false when the line has no marker, no ';' or
// no '='; callers skip such lines.
func ParseLine(line string) (key, value string, ok bool) {
	if len(line) == 0 || (line[0] != '+' && line[0] != '-') {
		return "", "", false
	}
	end := strings.IndexByte(line, ';')
	if end < 0 {
		return "", "", false
	}
	k, v, found := strings.Cut(line[1:end], "=")
	if !found {
		return "", "", false
	}
	return unquote(strings.TrimSpace(k)), unquote(strings.TrimSpace(v)), true
}

// unquote strips one enclosing pair of double quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
