package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/jsonlite/internal/errors"
	"github.com/mcncl/jsonlite/internal/jsonlite"
)

// previewLimit caps the length of scalar previews in listings
const previewLimit = 48

// Entry describes one node of a document
type Entry struct {
	Path    string
	Kind    jsonlite.Kind
	Preview string
}

// String formats the entry as a single listing line
func (e Entry) String() string {
	return fmt.Sprintf("%s\t%s\t%s", e.Path, e.Kind, e.Preview)
}

// Walk lists every node below obj depth-first, in document order.
// Containers are listed before their children.
func Walk(obj *jsonlite.Object) []Entry {
	var entries []Entry
	walkObject(obj, "", &entries)
	return entries
}

func walkObject(obj *jsonlite.Object, path string, entries *[]Entry) {
	obj.Range(func(key string, v jsonlite.Value) bool {
		walkValue(v, joinKey(path, key), entries)
		return true
	})
}

func walkValue(v jsonlite.Value, path string, entries *[]Entry) {
	*entries = append(*entries, Entry{Path: path, Kind: v.Kind(), Preview: preview(v)})

	switch v.Kind() {
	case jsonlite.KindObject:
		obj, _ := v.AsObject()
		walkObject(obj, path, entries)
	case jsonlite.KindArray:
		arr, _ := v.AsArray()
		for i, item := range arr.Values() {
			walkValue(item, fmt.Sprintf("%s[%d]", path, i), entries)
		}
	}
}

func preview(v jsonlite.Value) string {
	switch v.Kind() {
	case jsonlite.KindObject:
		obj, _ := v.AsObject()
		return plural(obj.Len(), "key")
	case jsonlite.KindArray:
		arr, _ := v.AsArray()
		return plural(arr.Len(), "item")
	case jsonlite.KindText:
		s := v.Raw()
		if len(s) > previewLimit {
			s = s[:previewLimit] + "..."
		}
		return strconv.Quote(s)
	default:
		return v.Raw()
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Lookup resolves a path such as "accounts[0].transactionHistory[2]"
// against obj. An empty path returns obj itself.
func Lookup(obj *jsonlite.Object, path string) (jsonlite.Value, error) {
	current := jsonlite.ObjectOf(obj)
	steps, err := splitPath(path)
	if err != nil {
		return jsonlite.Value{}, err
	}

	walked := ""
	for _, s := range steps {
		if s.index < 0 {
			o, ok := current.AsObject()
			if !ok {
				return jsonlite.Value{}, notFound(path, fmt.Sprintf("%s is a %s, not an object", orRoot(walked), current.Kind()))
			}
			walked = joinKey(walked, s.key)
			v, ok := o.Get(s.key)
			if !ok {
				return jsonlite.Value{}, notFound(path, fmt.Sprintf("no key %s", walked))
			}
			current = v
			continue
		}

		arr, ok := current.AsArray()
		if !ok {
			return jsonlite.Value{}, notFound(path, fmt.Sprintf("%s is a %s, not an array", orRoot(walked), current.Kind()))
		}
		walked = fmt.Sprintf("%s[%d]", walked, s.index)
		v, ok := arr.At(s.index)
		if !ok {
			return jsonlite.Value{}, notFound(path, fmt.Sprintf("index out of range at %s (length %d)", walked, arr.Len()))
		}
		current = v
	}
	return current, nil
}

// step is one path component: an object key, or an array index when
// index is not negative.
type step struct {
	key   string
	index int
}

func splitPath(path string) ([]step, error) {
	var steps []step
	path = strings.TrimSpace(path)
	if path == "" || path == "$" {
		return steps, nil
	}
	path = strings.TrimPrefix(path, "$.")

	for _, part := range strings.Split(path, ".") {
		name := part
		rest := ""
		if i := strings.IndexByte(part, '['); i >= 0 {
			name, rest = part[:i], part[i:]
		}
		if name != "" {
			steps = append(steps, step{key: name, index: -1})
		} else if rest == "" {
			return nil, errors.NewInputError(fmt.Sprintf("invalid path '%s': empty segment", path), nil)
		}
		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end < 0 {
				return nil, errors.NewInputError(fmt.Sprintf("invalid path '%s': bad index in '%s'", path, part), nil)
			}
			n, err := strconv.Atoi(rest[1:end])
			if err != nil || n < 0 {
				return nil, errors.NewInputError(fmt.Sprintf("invalid path '%s': bad index in '%s'", path, part), err)
			}
			steps = append(steps, step{index: n})
			rest = rest[end+1:]
		}
	}
	return steps, nil
}

func notFound(path, reason string) error {
	return errors.NewInputError(fmt.Sprintf("path '%s' not found: %s", path, reason), errors.ErrPathNotFound)
}

func orRoot(path string) string {
	if path == "" {
		return "the root"
	}
	return path
}
