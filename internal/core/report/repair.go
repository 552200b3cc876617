package report

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmpty is returned when there is no text to parse.
	ErrEmpty = errors.New("report: empty text")
	// ErrUnparseable is returned when every repair strategy failed.
	ErrUnparseable = errors.New("report: no valid JSON found")
)

var (
	openingFence = regexp.MustCompile("(?i)^```[a-z0-9_-]*[ \t]*\r?\n?")
	closingFence = regexp.MustCompile("```\\s*$")
)

// smartQuote reports whether r is a typographic double quote. Models
// sometimes use them as string delimiters.
func smartQuote(r rune) bool {
	switch r {
	case '“', '”', '„', '«', '»':
		return true
	}
	return false
}

// StripCodeFences removes a markdown code fence (with an optional language
// tag) wrapped around a model answer, plus any stray fence markers.
func StripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	s = openingFence.ReplaceAllString(s, "")
	s = closingFence.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func decode(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// ParseJSON decodes a model answer that is supposed to be JSON. Strategies
// are tried in order: the raw text, the text without code fences, the first
// balanced object or array, and finally a repaired version of that fragment.
func ParseJSON(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}
	if v, ok := decode(text); ok {
		return v, nil
	}

	stripped := StripCodeFences(text)
	if v, ok := decode(stripped); ok {
		return v, nil
	}

	fragment, balanced := ExtractBalanced(stripped)
	if balanced {
		if v, ok := decode(fragment); ok {
			return v, nil
		}
	}
	if fragment == "" {
		return nil, ErrUnparseable
	}

	if v, ok := decode(Repair(fragment)); ok {
		return v, nil
	}
	return nil, ErrUnparseable
}

// ExtractBalanced returns the first JSON object or array in s. The boolean is
// false when the opening bracket is never closed, in which case the returned
// fragment runs to the end of s. Brackets inside strings are ignored.
func ExtractBalanced(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return s[start:], false
}

// Repair fixes the defects most often seen in model generated JSON: smart
// quotes used as delimiters, raw control characters inside strings, trailing
// commas and output truncated before the closing brackets. Smart quotes
// inside a regular string literal are kept as text.
func Repair(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	var stack []byte
	inString, smartString, escaped := false, false, false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		raw := s[i : i+size]
		c := s[i]
		i += size

		if inString {
			switch {
			case escaped:
				escaped = false
				b.WriteString(raw)
			case c == '\\':
				escaped = true
				b.WriteByte(c)
			case c == '"', smartString && smartQuote(r):
				inString, smartString = false, false
				b.WriteByte('"')
			case c == '\n':
				b.WriteString(`\n`)
			case c == '\r':
				b.WriteString(`\r`)
			case c == '\t':
				b.WriteString(`\t`)
			case c < 0x20:
				// dropped
			default:
				b.WriteString(raw)
			}
			continue
		}

		if smartQuote(r) {
			inString, smartString = true, true
			b.WriteByte('"')
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',':
			if next := nextSignificant(s, i); next == '}' || next == ']' || next == 0 {
				continue
			}
		default:
			if c < 0x20 && c != '\n' && c != '\r' && c != '\t' {
				continue
			}
		}
		b.WriteString(raw)
	}

	if escaped {
		b.WriteByte('\\')
	}
	if inString {
		b.WriteByte('"')
	}
	out := strings.TrimRight(b.String(), " \t\r\n")
	out = strings.TrimSuffix(out, ",")
	if strings.HasSuffix(out, ":") {
		out += "null"
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out += string(stack[i])
	}
	return out
}

// nextSignificant returns the next non-whitespace byte at or after i, or 0.
func nextSignificant(s string, i int) byte {
	for ; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return s[i]
	}
	return 0
}
