package index

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrSyntax is returned for malformed index notation.
var ErrSyntax = errors.New("index: syntax error")

// ParseIndex parses the notation produced by Index.String: a variance marker
// (^ or _), a symbol, and an optional "=v" or "{v,...}" value suffix.
func ParseIndex(s string) (Index, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Index{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	var v Variance
	switch s[0] {
	case '^':
		v = Contravariant
	case '_':
		v = Covariant
	default:
		return Index{}, fmt.Errorf("%w: %q must start with ^ or _", ErrSyntax, s)
	}

	rest := s[1:]
	end := strings.IndexAny(rest, "={")
	if end < 0 {
		end = len(rest)
	}
	symbol := rest[:end]
	if !validSymbol(symbol) {
		return Index{}, fmt.Errorf("%w: invalid symbol in %q", ErrSyntax, s)
	}
	x := NewIndex(symbol, v)
	suffix := rest[end:]

	switch {
	case suffix == "":
		return x, nil
	case suffix[0] == '=':
		n, err := strconv.Atoi(suffix[1:])
		if err != nil || n < 0 {
			return Index{}, fmt.Errorf("%w: fixed value in %q", ErrSyntax, s)
		}
		return x.Fixed(n), nil
	case suffix[0] == '{' && strings.HasSuffix(suffix, "}"):
		body := suffix[1 : len(suffix)-1]
		if body == "" {
			return x.Restrict(), nil
		}
		parts := strings.Split(body, ",")
		vals := make([]int, len(parts))
		for k, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 0 {
				return Index{}, fmt.Errorf("%w: restriction in %q", ErrSyntax, s)
			}
			vals[k] = n
		}
		return x.Restrict(vals...), nil
	default:
		return Index{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
}

// Parse parses an unbound Indices from "(^a,_b)" or "^a _b" notation.
// The empty string and "()" yield the scalar Indices.
func Parse(s string) (Indices, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") {
		if !strings.HasSuffix(s, ")") {
			return Indices{}, fmt.Errorf("%w: unbalanced parenthesis in %q", ErrSyntax, s)
		}
		s = s[1 : len(s)-1]
	}

	var (
		toks  []string
		depth int
		start = -1
	)
	// commas inside {...} belong to a restriction
	for k, r := range s {
		switch {
		case r == '{':
			depth++
		case r == '}':
			depth--
		}
		sep := depth == 0 && (r == ',' || unicode.IsSpace(r))
		switch {
		case sep && start >= 0:
			toks = append(toks, s[start:k])
			start = -1
		case !sep && start < 0:
			start = k
		}
	}
	if start >= 0 {
		toks = append(toks, s[start:])
	}
	if depth != 0 {
		return Indices{}, fmt.Errorf("%w: unbalanced brace in %q", ErrSyntax, s)
	}

	idx := make([]Index, len(toks))
	for k, tok := range toks {
		x, err := ParseIndex(tok)
		if err != nil {
			return Indices{}, err
		}
		idx[k] = x
	}
	return Unbound(idx...), nil
}

func validSymbol(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '~' && r != '-' {
			return false
		}
	}
	return true
}
