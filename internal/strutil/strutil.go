// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package strutil contains small string helpers used by templates.
package strutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}

// Camelize capitalizes each space-separated word of s.
func Camelize(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		words[i] = Capitalize(w)
	}
	return strings.Join(words, " ")
}

// CapitalizeVar upper-cases the first letter of s and leaves the rest as is.
func CapitalizeVar(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + s[size:]
}

type joinOptions struct {
	joiner    string
	endJoiner string
}

// JoinOption configures [Arr2Str].
type JoinOption func(*joinOptions)

// WithJoiner sets the separator placed between all but the last two elements.
func WithJoiner(s string) JoinOption {
	return func(o *joinOptions) { o.joiner = s }
}

// WithEndJoiner sets the separator placed before the last element.
func WithEndJoiner(s string) JoinOption {
	return func(o *joinOptions) { o.endJoiner = s }
}

// Arr2Str joins arr into prose: ["a", "b", "c"] becomes "a, b and c". A
// single element is returned alone, with no joiner, and an empty arr gives an
// empty string.
func Arr2Str(arr []string, opts ...JoinOption) string {
	o := &joinOptions{joiner: ", ", endJoiner: " and "}
	for _, opt := range opts {
		opt(o)
	}
	switch len(arr) {
	case 0:
		return ""
	case 1:
		return arr[0]
	}
	last := len(arr) - 1
	return strings.Join(arr[:last], o.joiner) + o.endJoiner + arr[last]
}

// IsEmptyObj reports whether every value of m is nil or a blank string. Other
// zero values, like 0 or false, are not considered empty.
func IsEmptyObj(m map[string]any) bool {
	for _, v := range m {
		switch v := v.(type) {
		case nil:
		case string:
			if strings.TrimSpace(v) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// IsValidStr reports whether v is a non-empty string or a pointer to one.
func IsValidStr(v any) bool {
	switch v := v.(type) {
	case string:
		return v != ""
	case *string:
		return v != nil && *v != ""
	}
	return false
}
