// Package mediatype implements the type/subtype;params media-type model
// used by request Content-Type and Accept headers: parsing, the
// compatibility and "is" relations, specificity ordering, and
// Accept-header tokenization with quality-weighted sorting (spec §4.3,
// §4.4).
package mediatype

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MediaType is an immutable type/subtype pair with possibly multi-valued
// parameters. Type and Subtype may be "*". Parameter keys are
// case-folded to lower-case; values are not.
type MediaType struct {
	Type    string
	Subtype string
	Params  map[string][]string
}

// String renders the media type back to wire form, sorted by parameter
// key for determinism.
func (m MediaType) String() string {
	var b strings.Builder
	b.WriteString(m.Type)
	b.WriteByte('/')
	b.WriteString(m.Subtype)

	keys := make([]string, 0, len(m.Params))
	for k := range m.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range m.Params[k] {
			b.WriteByte(';')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}

// Parse parses a "type/subtype;key=value;..." string. Parameter values
// may be double-quoted, with backslash escaping inside the quotes.
func Parse(s string) (MediaType, error) {
	parts := splitUnquoted(s, ';')
	typeSubtype := strings.TrimSpace(parts[0])

	slash := strings.IndexByte(typeSubtype, '/')
	if slash < 0 {
		return MediaType{}, fmt.Errorf("mediatype: missing '/' in %q", s)
	}

	t := strings.ToLower(strings.TrimSpace(typeSubtype[:slash]))
	sub := strings.ToLower(strings.TrimSpace(typeSubtype[slash+1:]))
	if t == "" || sub == "" {
		return MediaType{}, fmt.Errorf("mediatype: empty type or subtype in %q", s)
	}

	params := make(map[string][]string)
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		eq := strings.IndexByte(p, '=')
		if eq < 0 {
			return MediaType{}, fmt.Errorf("mediatype: malformed parameter %q in %q", p, s)
		}
		key := strings.ToLower(strings.TrimSpace(p[:eq]))
		val := unquote(strings.TrimSpace(p[eq+1:]))
		params[key] = append(params[key], val)
	}

	return MediaType{Type: t, Subtype: sub, Params: params}, nil
}

func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			b.WriteByte(inner[i+1])
			i++
			continue
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}

// splitUnquoted splits s on sep, treating sep as a separator only when it
// occurs outside a double-quoted run; a backslash escapes the next
// character anywhere in the string.
func splitUnquoted(s string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			cur.WriteByte(c)
			cur.WriteByte(s[i+1])
			i++
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case c == sep && !inQuotes:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

func equalMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	ac := append([]string(nil), a...)
	bc := append([]string(nil), b...)
	sort.Strings(ac)
	sort.Strings(bc)
	for i := range ac {
		if ac[i] != bc[i] {
			return false
		}
	}
	return true
}

// Compatible implements the symmetric "~" relation (spec §4.3): types and
// subtypes match or are wildcarded, and every parameter key present on
// both sides carries the same multiset of values.
func Compatible(a, b MediaType) bool {
	if !(a.Type == "*" || b.Type == "*" || a.Type == b.Type) {
		return false
	}
	if !(a.Subtype == "*" || b.Subtype == "*" || a.Subtype == b.Subtype) {
		return false
	}
	for k, av := range a.Params {
		if bv, ok := b.Params[k]; ok && !equalMultiset(av, bv) {
			return false
		}
	}
	return true
}

// Is reports whether a is an instance of b (spec §4.3, asymmetric): b's
// type/subtype wildcards or matches a's, and every one of b's parameters
// appears in a with an equal value multiset. Used by MediaTypeHandler to
// match a request's Content-Type against a registered handler's type.
func Is(a, b MediaType) bool {
	if !(b.Type == "*" || a.Type == b.Type) {
		return false
	}
	if !(b.Subtype == "*" || a.Subtype == b.Subtype) {
		return false
	}
	for k, bv := range b.Params {
		av, ok := a.Params[k]
		if !ok || !equalMultiset(av, bv) {
			return false
		}
	}
	return true
}

func paramCount(m MediaType) int {
	n := 0
	for _, v := range m.Params {
		n += len(v)
	}
	return n
}

// Compare implements the specificity order of spec §4.3, least to most
// specific: wildcard type sorts below non-wildcard, then wildcard subtype
// below non-wildcard, then fewer parameters below more. It returns a
// negative number if a is less specific than b, a positive number if more
// specific, and zero on a tie.
func Compare(a, b MediaType) int {
	aWildType, bWildType := a.Type == "*", b.Type == "*"
	if aWildType != bWildType {
		if aWildType {
			return -1
		}
		return 1
	}

	aWildSub, bWildSub := a.Subtype == "*", b.Subtype == "*"
	if aWildSub != bWildSub {
		if aWildSub {
			return -1
		}
		return 1
	}

	an, bn := paramCount(a), paramCount(b)
	if an != bn {
		if an < bn {
			return -1
		}
		return 1
	}

	return 0
}

// AcceptEntry is one parsed, quality-weighted entry from an Accept header.
type AcceptEntry struct {
	MediaType MediaType
	Quality   float64
}

// ParseAccept parses an Accept header value into entries sorted
// most-preferred first: higher quality first, then more specific media
// type (spec §4.4). A missing header is treated as "*/*". Any malformed
// token fails the whole header, so callers can map the error to an empty
// acceptable set (always 406).
func ParseAccept(header string) ([]AcceptEntry, error) {
	if strings.TrimSpace(header) == "" {
		return []AcceptEntry{{MediaType: MediaType{Type: "*", Subtype: "*", Params: map[string][]string{}}, Quality: 1.0}}, nil
	}

	tokens := splitUnquoted(header, ',')
	entries := make([]AcceptEntry, 0, len(tokens))

	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		mt, err := Parse(tok)
		if err != nil {
			return nil, fmt.Errorf("mediatype: invalid Accept entry %q: %w", tok, err)
		}

		quality := 1.0
		if qs, ok := mt.Params["q"]; ok {
			if len(qs) != 1 {
				return nil, fmt.Errorf("mediatype: duplicate q parameter in %q", tok)
			}
			v, err := strconv.ParseFloat(qs[0], 64)
			if err != nil || v < 0 || v > 1 {
				return nil, fmt.Errorf("mediatype: invalid q value in %q", tok)
			}
			quality = v
			delete(mt.Params, "q")
		}

		entries = append(entries, AcceptEntry{MediaType: mt, Quality: quality})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Quality != entries[j].Quality {
			return entries[i].Quality > entries[j].Quality
		}
		return Compare(entries[i].MediaType, entries[j].MediaType) > 0
	})

	return entries, nil
}
