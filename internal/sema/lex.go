package sema

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokChar
	tokOp
	tokLIndex // (.
	tokRIndex // .)
)

type token struct {
	kind tokenKind
	text string
}

// lex splits an expression or type expression. Identifiers are ASCII
// letters, digits and underscores; char literals are 'x'.
func lex(src string) ([]token, error) {
	var out []token
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isIdentStart(r):
			j := i + size
			for j < len(src) && isIdentPart(rune(src[j])) {
				j++
			}
			out = append(out, token{kind: tokIdent, text: src[i:j]})
			i = j
		case r >= '0' && r <= '9':
			j := i + 1
			for j < len(src) && src[j] >= '0' && src[j] <= '9' {
				j++
			}
			out = append(out, token{kind: tokNumber, text: src[i:j]})
			i = j
		case r == '\'':
			if i+2 >= len(src) || src[i+2] != '\'' {
				return nil, fmt.Errorf("%w: unterminated char literal in %q", ErrBadExpression, src)
			}
			out = append(out, token{kind: tokChar, text: src[i+1 : i+2]})
			i += 3
		case strings.HasPrefix(src[i:], "(."):
			out = append(out, token{kind: tokLIndex, text: "(."})
			i += 2
		case strings.HasPrefix(src[i:], ".)"):
			out = append(out, token{kind: tokRIndex, text: ".)"})
			i += 2
		default:
			op := src[i : i+1]
			if i+1 < len(src) && src[i+1] == '=' && strings.ContainsRune("<>!", r) {
				op = src[i : i+2]
			}
			out = append(out, token{kind: tokOp, text: op})
			i += len(op)
		}
	}
	return append(out, token{kind: tokEOF}), nil
}

func isIdentStart(r rune) bool {
	return r == '_' || (r < utf8.RuneSelf && unicode.IsLetter(r))
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
