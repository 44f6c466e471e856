package jsonlite

import (
	"strings"
)

// Object is an ordered mapping from text keys to values. Keys render in the
// order they were first inserted; setting an existing key replaces its
// value in place. The zero value is an empty object ready to use.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject creates an empty object
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// ParseObject parses text leniently. Text that is not wrapped in braces
// yields an empty object; malformed members are skipped or kept as text.
func ParseObject(text string) *Object {
	return DecodeObject(text).Object
}

// DecodeObject parses text leniently and reports what it had to recover from.
func DecodeObject(text string) Result {
	var r Result
	r.Object = parseObject(text, "", &r)
	return r
}

func parseObject(text string, path string, r *Result) *Object {
	obj := NewObject()
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '{' || text[len(text)-1] != '}' {
		r.add(path, AnomalyNotObject, text)
		return obj
	}

	members, status := splitTopLevel(text[1 : len(text)-1])
	if !status.balanced() {
		r.add(path, AnomalyUnbalanced, text)
	}
	if status.empty > 0 {
		r.add(path, AnomalyEmptySegment, "")
	}

	for _, member := range members {
		colon := indexColon(member)
		if colon < 0 {
			r.add(path, AnomalyMissingColon, member)
			continue
		}
		rawKey := strings.TrimSpace(member[:colon])
		if rawKey == "" {
			r.add(path, AnomalyEmptyKey, member)
			continue
		}
		key := rawKey
		if strings.HasPrefix(rawKey, `"`) {
			var ok bool
			if key, ok = unquote(rawKey); !ok {
				r.add(joinKey(path, key), AnomalyUnterminatedString, rawKey)
			}
		}
		valueText := strings.TrimSpace(member[colon+1:])
		obj.Set(key, classify(valueText, joinKey(path, key), r))
	}
	return obj
}

// Set stores v under key. A new key goes to the end; an existing key keeps
// its position and takes the new value.
func (o *Object) Set(key string, v Value) *Object {
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
	return o
}

// Get returns the value stored under key
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Delete removes key, keeping the order of the remaining keys
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Len returns the number of keys
func (o *Object) Len() int {
	return len(o.keys)
}

// Range calls fn for every entry in order until fn returns false
func (o *Object) Range(fn func(key string, v Value) bool) {
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// GetText returns the text stored under key. Numbers are returned as their
// literal so callers reading loosely typed files still get a string.
func (o *Object) GetText(key string) (string, bool) {
	v, ok := o.values[key]
	if !ok || v.kind == KindArray || v.kind == KindObject {
		return "", false
	}
	return v.text, true
}

// GetFloat returns the number stored under key as a float64
func (o *Object) GetFloat(key string) (float64, bool) {
	v, ok := o.values[key]
	if !ok {
		return 0, false
	}
	f, err := v.AsFloat()
	return f, err == nil
}

// GetInt returns the number stored under key as an int64
func (o *Object) GetInt(key string) (int64, bool) {
	v, ok := o.values[key]
	if !ok {
		return 0, false
	}
	n, err := v.AsInt()
	return n, err == nil
}

// GetArray returns the array stored under key
func (o *Object) GetArray(key string) (*Array, bool) {
	v, ok := o.values[key]
	if !ok {
		return nil, false
	}
	return v.AsArray()
}

// GetObject returns the object stored under key
func (o *Object) GetObject(key string) (*Object, bool) {
	v, ok := o.values[key]
	if !ok {
		return nil, false
	}
	return v.AsObject()
}

// Equal reports whether both objects hold the same keys in the same order
// with equal values.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if len(o.keys) != len(other.keys) {
		return false
	}
	for i, k := range o.keys {
		if other.keys[i] != k || !o.values[k].Equal(other.values[k]) {
			return false
		}
	}
	return true
}

// Render returns the indented text form of o using indent spaces per level
func (o *Object) Render(indent int) string {
	var b strings.Builder
	newRenderer(&b, indent).object(o, 1)
	return b.String()
}
