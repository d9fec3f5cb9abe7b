package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// UnquoteString decodes the text of a string_literal, resolving escapes.
func UnquoteString(text string) (string, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", fmt.Errorf("not a string literal: %s", text)
	}
	return unescape(text[1 : len(text)-1])
}

// UnquoteByte decodes the text of a byte_literal.
func UnquoteByte(text string) (rune, error) {
	if len(text) < 3 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return 0, fmt.Errorf("not a byte literal: %s", text)
	}
	s, err := unescape(text[1 : len(text)-1])
	if err != nil {
		return 0, err
	}
	r, width := utf8.DecodeRuneInString(s)
	if width != len(s) {
		return 0, fmt.Errorf("byte literal holds more than one character: %s", text)
	}
	return r, nil
}

func unescape(body string) (string, error) {
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(body) {
			return "", fmt.Errorf("trailing backslash")
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\'', '"', '\\':
			sb.WriteByte(body[i])
		case 'x':
			if i+3 > len(body) {
				return "", fmt.Errorf("short \\x escape")
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("invalid \\x escape: %w", err)
			}
			sb.WriteByte(byte(v))
			i += 2
		case 'u':
			end := strings.IndexByte(body[i:], '}')
			if i+1 >= len(body) || body[i+1] != '{' || end < 0 {
				return "", fmt.Errorf("invalid \\u escape")
			}
			v, err := strconv.ParseUint(body[i+2:i+end], 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", fmt.Errorf("invalid \\u escape")
			}
			sb.WriteRune(rune(v))
			i += end
		default:
			return "", fmt.Errorf("invalid escape \\%c", body[i])
		}
	}
	return sb.String(), nil
}
