// Package util collects the small generic and text helpers shared across
// adapters, adapted from mmp-vice/pkg/util (generic.go, text.go): the
// simulator-specific pieces (TransientMap, rich-presence, GCS upload) are
// dropped since nothing in a batch compiler needs them.
package util

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Select returns a if sel is true, otherwise b -- a ternary-expression
// stand-in used throughout the adapters for source-format branching.
func Select[T any](sel bool, a, b T) T {
	if sel {
		return a
	}
	return b
}

// SortedMapKeys returns the keys of m in ascending order. Several
// cross-reference passes require iterating a map in a deterministic
// order (invariant 7 and the "region by nearest navaid" open question).
func SortedMapKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// SortedMap iterates m in ascending key order and returns the values in
// that order -- used by the ARINC 424 adapter's airway assembly to replay
// a route's sequence-numbered fixes deterministically.
func SortedMap[K constraints.Ordered, V any](m map[K]V) []V {
	keys := SortedMapKeys(m)
	vals := make([]V, len(keys))
	for i, k := range keys {
		vals[i] = m[k]
	}
	return vals
}

// Atof trims whitespace before parsing, since fixed-column text sources
// pad numeric fields with spaces.
func Atof(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// Atoi is Atof's integer counterpart.
func Atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// AllSpaces reports whether every byte of s is a space, i.e. a
// fixed-column field is empty.
func AllSpaces(s []byte) bool {
	for _, b := range s {
		if b != ' ' {
			return false
		}
	}
	return true
}

// TrimField trims surrounding whitespace from a fixed-column field once
// it has been sliced out of a record.
func TrimField(s []byte) string {
	return strings.TrimSpace(string(s))
}
