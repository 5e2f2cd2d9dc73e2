// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package classname builds HTML class attributes out of Tailwind CSS
// utilities.
package classname

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// CN joins inputs into a class list and resolves conflicting Tailwind
// utilities, keeping the last one ("p-2 p-4" becomes "p-4").
//
// Inputs may be strings, string slices, nested []any, maps of class names to
// conditions, or numbers. Empty strings, nil, false and zero numbers are
// skipped.
func CN(inputs ...any) string {
	var classes []string
	for _, in := range inputs {
		classes = appendClasses(classes, in)
	}
	if len(classes) == 0 {
		return ""
	}
	joined := strings.Join(classes, " ")

	// twmerge returns the surviving utilities in map order. Put them back in
	// the order they were given, so builds are reproducible.
	pos := make(map[string]int)
	for i, class := range strings.Fields(joined) {
		pos[class] = i
	}
	merged := strings.Fields(twmerge.Merge(joined))
	slices.SortStableFunc(merged, func(a, b string) int {
		return cmp.Compare(pos[a], pos[b])
	})
	return strings.Join(merged, " ")
}

func appendClasses(classes []string, in any) []string {
	switch v := in.(type) {
	case nil:
	case string:
		if v = strings.TrimSpace(v); v != "" {
			classes = append(classes, v)
		}
	case []string:
		for _, s := range v {
			classes = appendClasses(classes, s)
		}
	case []any:
		for _, e := range v {
			classes = appendClasses(classes, e)
		}
	case map[string]bool:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			if v[k] {
				classes = appendClasses(classes, k)
			}
		}
	case bool:
		// Lets templates write {{ cn (and .Active "active") }}.
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		if s := fmt.Sprint(v); s != "0" {
			classes = append(classes, s)
		}
	case fmt.Stringer:
		classes = appendClasses(classes, v.String())
	}
	return classes
}
