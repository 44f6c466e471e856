package jsonlite

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindArray
	KindObject
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged union over text, number, array and object.
// Numbers keep the decimal text they were parsed from and are only
// converted when an accessor asks for them.
type Value struct {
	kind Kind
	text string
	arr  *Array
	obj  *Object
}

// Text creates a text value
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Int creates an integer value
func Int(n int64) Value {
	return Value{kind: KindInt, text: strconv.FormatInt(n, 10)}
}

// Float creates a floating-point value. The rendered form always carries a
// decimal point so the value is read back as a float. NaN and infinities
// have no numeric literal and are stored as text.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Text(strconv.FormatFloat(f, 'f', -1, 64))
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return Value{kind: KindFloat, text: s}
}

// ArrayOf wraps an array. A nil array is treated as empty.
func ArrayOf(a *Array) Value {
	if a == nil {
		a = NewArray()
	}
	return Value{kind: KindArray, arr: a}
}

// ObjectOf wraps an object. A nil object is treated as empty.
func ObjectOf(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Kind reports the variant held by v
func (v Value) Kind() Kind {
	return v.kind
}

// IsNumber reports whether v is an integer or a float
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// Raw returns the scalar text of v: the string for text values and the
// decimal literal for numbers. Containers return "".
func (v Value) Raw() string {
	return v.text
}

// AsText returns the string held by a text value
func (v Value) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// AsInt converts a numeric value to int64. Floats are accepted only when
// they have no fractional part.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindInt:
		n, err := strconv.ParseInt(v.text, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("integer %s out of range: %w", v.text, err)
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(v.text, 64)
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("float %s has a fractional part", v.text)
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("cannot convert %s value to int", v.kind)
	}
}

// AsFloat converts a numeric value to float64
func (v Value) AsFloat() (float64, error) {
	if !v.IsNumber() {
		return 0, fmt.Errorf("cannot convert %s value to float", v.kind)
	}
	return strconv.ParseFloat(v.text, 64)
}

// AsArray returns the array held by v
func (v Value) AsArray() (*Array, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// AsObject returns the object held by v
func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// String renders scalars as their plain text and containers compactly on
// one line. It is meant for display, not for persistence.
func (v Value) String() string {
	if v.kind == KindArray || v.kind == KindObject {
		return Inline(v)
	}
	return v.text
}

// Equal reports whether two values have the same kind and content.
// Object comparison is order-sensitive.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindArray:
		return v.arr.Equal(other.arr)
	case KindObject:
		return v.obj.Equal(other.obj)
	default:
		return v.text == other.text
	}
}

// classify turns a trimmed value token into a Value using the lenient rules:
// nested containers by their opening bracket, quoted text, then numbers,
// then raw text as the fallback.
func classify(token string, path string, r *Result) Value {
	switch {
	case strings.HasPrefix(token, "["):
		return ArrayOf(parseArray(token, path, r))
	case strings.HasPrefix(token, "{"):
		return ObjectOf(parseObject(token, path, r))
	case strings.HasPrefix(token, `"`):
		s, ok := unquote(token)
		if !ok {
			r.add(path, AnomalyUnterminatedString, token)
		}
		return Text(s)
	case strings.Contains(token, "."):
		if _, err := strconv.ParseFloat(token, 64); err == nil {
			return Value{kind: KindFloat, text: token}
		}
	default:
		if isIntegerToken(token) {
			return Value{kind: KindInt, text: token}
		}
	}
	r.add(path, AnomalyBareText, token)
	return Text(token)
}

// isIntegerToken reports whether s is an optionally signed run of digits.
// Out-of-range integers still qualify so they survive a round trip.
func isIntegerToken(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// quote renders s as a quoted literal, escaping quotes and backslashes
func quote(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return `"` + s + `"`
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}

// unquote strips the surrounding quotes of a quoted token and resolves
// escaped quotes and backslashes. Other escape sequences are kept verbatim.
// The boolean is false when the closing quote is missing.
func unquote(token string) (string, bool) {
	if len(token) < 2 || token[len(token)-1] != '"' || escapedAt(token, len(token)-1) {
		return unescape(strings.TrimPrefix(token, `"`)), false
	}
	return unescape(token[1 : len(token)-1]), true
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// escapedAt reports whether the byte at i is preceded by an odd number of
// backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
