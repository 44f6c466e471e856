package jsonlite

import (
	"strings"
)

// Array is an ordered sequence of values
type Array struct {
	items []Value
}

// NewArray creates an array holding the given values
func NewArray(values ...Value) *Array {
	items := make([]Value, len(values))
	copy(items, values)
	return &Array{items: items}
}

// TextArray creates an array of text values
func TextArray(values []string) *Array {
	items := make([]Value, len(values))
	for i, s := range values {
		items[i] = Text(s)
	}
	return &Array{items: items}
}

// ParseArray parses text leniently. Text that is not wrapped in brackets
// yields an empty array.
func ParseArray(text string) *Array {
	return DecodeArray(text).Array
}

// DecodeArray parses text leniently and reports what it had to recover from.
func DecodeArray(text string) Result {
	var r Result
	r.Array = parseArray(text, "", &r)
	return r
}

func parseArray(text string, path string, r *Result) *Array {
	arr := NewArray()
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '[' || text[len(text)-1] != ']' {
		r.add(path, AnomalyNotArray, text)
		return arr
	}

	elements, status := splitTopLevel(text[1 : len(text)-1])
	if !status.balanced() {
		r.add(path, AnomalyUnbalanced, text)
	}
	if status.empty > 0 {
		r.add(path, AnomalyEmptySegment, "")
	}

	for _, element := range elements {
		arr.items = append(arr.items, classify(element, joinIndex(path, len(arr.items)), r))
	}
	return arr
}

// Append adds values to the end of the array
func (a *Array) Append(values ...Value) *Array {
	a.items = append(a.items, values...)
	return a
}

// At returns the value at index i
func (a *Array) At(i int) (Value, bool) {
	if i < 0 || i >= len(a.items) {
		return Value{}, false
	}
	return a.items[i], true
}

// Len returns the number of elements
func (a *Array) Len() int {
	return len(a.items)
}

// Values returns a copy of the elements
func (a *Array) Values() []Value {
	values := make([]Value, len(a.items))
	copy(values, a.items)
	return values
}

// Texts returns the scalar text of every element. Nested containers are
// rendered compactly.
func (a *Array) Texts() []string {
	texts := make([]string, len(a.items))
	for i, v := range a.items {
		texts[i] = v.String()
	}
	return texts
}

// Equal reports whether both arrays hold equal values in the same order
func (a *Array) Equal(other *Array) bool {
	if a == nil || other == nil {
		return a == other
	}
	if len(a.items) != len(other.items) {
		return false
	}
	for i := range a.items {
		if !a.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}

// Render returns the indented text form of a. An empty array is always
// rendered as "[]".
func (a *Array) Render(indent int) string {
	var b strings.Builder
	newRenderer(&b, indent).array(a, 1)
	return b.String()
}
