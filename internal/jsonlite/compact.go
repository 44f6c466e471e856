package jsonlite

import (
	"encoding/json"
	"math/big"
	"regexp"
	"strconv"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// jsonNumber matches the number grammar of standard JSON
var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Compact writes o as standard single-line JSON. Strings are escaped by the
// JSON writer, so the output is safe to hand to any JSON consumer.
// Numbers keep their literal text, so floats stay floats and integers of any
// size are written without loss.
func Compact(o *Object) ([]byte, error) {
	w := jwriter.NewWriter()
	writeObject(&w, o)
	if err := w.Error(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func writeObject(w *jwriter.Writer, o *Object) {
	obj := w.Object()
	for _, k := range o.keys {
		writeValue(obj.Name(k), o.values[k])
	}
	obj.End()
}

func writeArray(w *jwriter.Writer, a *Array) {
	arr := w.Array()
	for _, v := range a.items {
		writeValue(w, v)
	}
	arr.End()
}

func writeValue(w *jwriter.Writer, v Value) {
	switch v.kind {
	case KindInt, KindFloat:
		if lit, ok := numberLiteral(v); ok {
			w.Raw(json.RawMessage(lit))
			return
		}
		w.String(v.text)
	case KindArray:
		writeArray(w, v.arr)
	case KindObject:
		writeObject(w, v.obj)
	default:
		w.String(v.text)
	}
}

// numberLiteral returns v's text as a standard JSON number. Lenient forms
// such as "+5", "007" or "3." are normalized without changing their kind.
func numberLiteral(v Value) (string, bool) {
	if jsonNumber.MatchString(v.text) {
		return v.text, true
	}
	if v.kind == KindInt {
		n, ok := new(big.Int).SetString(v.text, 10)
		if !ok {
			return "", false
		}
		return n.String(), true
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil {
		return "", false
	}
	norm := Float(f)
	if norm.kind != KindFloat {
		return "", false
	}
	return norm.text, true
}
