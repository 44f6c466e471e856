package jsonlite

import "strings"

// renderer writes containers as indented text. Elements of a container at
// level n are indented by n*width spaces and its closing bracket by
// (n-1)*width. A compact renderer puts everything on one line.
type renderer struct {
	b       *strings.Builder
	width   int
	compact bool
}

func newRenderer(b *strings.Builder, width int) *renderer {
	if width < 0 {
		width = 0
	}
	return &renderer{b: b, width: width}
}

func (r *renderer) pad(level int) {
	if r.compact || level <= 0 {
		return
	}
	r.b.WriteString(strings.Repeat(" ", level*r.width))
}

func (r *renderer) newline() {
	if !r.compact {
		r.b.WriteByte('\n')
	}
}

func (r *renderer) value(v Value, level int) {
	switch v.kind {
	case KindText:
		r.b.WriteString(quote(v.text))
	case KindArray:
		r.array(v.arr, level)
	case KindObject:
		r.object(v.obj, level)
	default:
		r.b.WriteString(v.text)
	}
}

func (r *renderer) object(o *Object, level int) {
	r.b.WriteByte('{')
	r.newline()
	for i, k := range o.keys {
		r.pad(level)
		r.b.WriteString(quote(k))
		r.b.WriteString(": ")
		r.value(o.values[k], level+1)
		if i < len(o.keys)-1 {
			r.b.WriteByte(',')
			if r.compact {
				r.b.WriteByte(' ')
			}
		}
		r.newline()
	}
	r.pad(level - 1)
	r.b.WriteByte('}')
}

func (r *renderer) array(a *Array, level int) {
	if len(a.items) == 0 {
		r.b.WriteString("[]")
		return
	}
	r.b.WriteByte('[')
	r.newline()
	for i, v := range a.items {
		r.pad(level)
		r.value(v, level+1)
		if i < len(a.items)-1 {
			r.b.WriteByte(',')
			if r.compact {
				r.b.WriteByte(' ')
			}
		}
		r.newline()
	}
	r.pad(level - 1)
	r.b.WriteByte(']')
}

// Inline renders a value on a single line, e.g. {"a": 1, "b": [1, 2]}.
func Inline(v Value) string {
	var b strings.Builder
	r := &renderer{b: &b, compact: true}
	r.value(v, 1)
	return b.String()
}
