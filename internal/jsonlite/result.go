package jsonlite

import (
	"fmt"
	"strings"
)

// AnomalyKind names a recoverable problem found while parsing leniently
type AnomalyKind string

const (
	// AnomalyNotObject means the text was not wrapped in braces
	AnomalyNotObject AnomalyKind = "not_object"
	// AnomalyNotArray means the text was not wrapped in brackets
	AnomalyNotArray AnomalyKind = "not_array"
	// AnomalyUnbalanced means braces, brackets or quotes did not pair up
	AnomalyUnbalanced AnomalyKind = "unbalanced"
	// AnomalyEmptySegment means a comma had nothing on one side of it
	AnomalyEmptySegment AnomalyKind = "empty_segment"
	// AnomalyMissingColon means an object member had no key/value separator
	AnomalyMissingColon AnomalyKind = "missing_colon"
	// AnomalyEmptyKey means an object member had an empty key
	AnomalyEmptyKey AnomalyKind = "empty_key"
	// AnomalyUnterminatedString means a quoted value had no closing quote
	AnomalyUnterminatedString AnomalyKind = "unterminated_string"
	// AnomalyBareText means an unquoted token was not a number and was kept as text
	AnomalyBareText AnomalyKind = "bare_text"
)

// Anomaly is one recoverable problem, located by the path of the container
// or member it was found in.
type Anomaly struct {
	Path   string
	Kind   AnomalyKind
	Detail string
}

func (a Anomaly) String() string {
	path := a.Path
	if path == "" {
		path = "$"
	}
	if a.Detail == "" {
		return fmt.Sprintf("%s: %s", path, a.Kind)
	}
	return fmt.Sprintf("%s: %s (%s)", path, a.Kind, truncate(a.Detail, 40))
}

// Result carries the best-effort structure of a parse together with every
// anomaly the lenient parser recovered from.
type Result struct {
	Object    *Object
	Array     *Array
	Anomalies []Anomaly
}

func (r *Result) add(path string, kind AnomalyKind, detail string) {
	r.Anomalies = append(r.Anomalies, Anomaly{Path: path, Kind: kind, Detail: detail})
}

// OK reports whether the parse needed no recovery
func (r Result) OK() bool {
	return len(r.Anomalies) == 0
}

// Err returns a *StrictError listing the anomalies, or nil when there were none
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &StrictError{Anomalies: r.Anomalies}
}

// StrictError is returned by strict callers that refuse lenient recovery
type StrictError struct {
	Anomalies []Anomaly
}

func (e *StrictError) Error() string {
	return "malformed document: " + e.Details()
}

// Details lists the anomalies without the leading summary
func (e *StrictError) Details() string {
	if len(e.Anomalies) == 1 {
		return e.Anomalies[0].String()
	}
	parts := make([]string, len(e.Anomalies))
	for i, a := range e.Anomalies {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%d problems: %s", len(e.Anomalies), strings.Join(parts, "; "))
}

// Has reports whether any anomaly of the given kind was recorded
func (e *StrictError) Has(kind AnomalyKind) bool {
	for _, a := range e.Anomalies {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func joinIndex(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
