package formatter

import (
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsonlite/internal/config"
	"github.com/mcncl/jsonlite/internal/jsonlite"
)

// Formatter is responsible for rendering documents in a consistent layout
type Formatter struct {
	indent  int
	keyCase string
	compact bool
}

// NewFormatter creates a Formatter using the indent and key case from cfg
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{
		indent:  cfg.Indent,
		keyCase: cfg.KeyCase,
	}
}

// Compact switches the formatter to single-line standard JSON output
func (f *Formatter) Compact(compact bool) *Formatter {
	f.compact = compact
	return f
}

// Format renders the document. Keys are rewritten first when a key case is
// configured; the input object is never modified.
func (f *Formatter) Format(obj *jsonlite.Object) (string, error) {
	if obj == nil {
		return "", fmt.Errorf("nothing to format")
	}

	if f.keyCase != config.KeyCaseNone {
		convert, err := converter(f.keyCase)
		if err != nil {
			return "", err
		}
		obj = RenameKeys(obj, convert)
	}

	if f.compact {
		out, err := jsonlite.Compact(obj)
		if err != nil {
			return "", fmt.Errorf("failed to write compact JSON: %w", err)
		}
		return string(out), nil
	}

	return obj.Render(f.indent), nil
}

// RenameKeys returns a copy of obj with every key, at every depth, passed
// through convert. Order is preserved; if two keys convert to the same name
// the later value wins and the position of the first is kept.
func RenameKeys(obj *jsonlite.Object, convert func(string) string) *jsonlite.Object {
	out := jsonlite.NewObject()
	obj.Range(func(key string, v jsonlite.Value) bool {
		out.Set(convert(key), renameValue(v, convert))
		return true
	})
	return out
}

func renameValue(v jsonlite.Value, convert func(string) string) jsonlite.Value {
	switch v.Kind() {
	case jsonlite.KindObject:
		obj, _ := v.AsObject()
		return jsonlite.ObjectOf(RenameKeys(obj, convert))
	case jsonlite.KindArray:
		arr, _ := v.AsArray()
		out := jsonlite.NewArray()
		for _, item := range arr.Values() {
			out.Append(renameValue(item, convert))
		}
		return jsonlite.ArrayOf(out)
	default:
		return v
	}
}

// converter maps a configured key case to its strcase function
func converter(keyCase string) (func(string) string, error) {
	switch keyCase {
	case config.KeyCaseCamel:
		return strcase.ToCamel, nil
	case config.KeyCaseLowerCamel:
		return strcase.ToLowerCamel, nil
	case config.KeyCaseSnake:
		return strcase.ToSnake, nil
	case config.KeyCaseKebab:
		return strcase.ToKebab, nil
	default:
		return nil, fmt.Errorf("unsupported key case '%s'", keyCase)
	}
}
