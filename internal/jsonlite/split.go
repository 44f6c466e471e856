package jsonlite

import "strings"

// splitStatus describes how the scan of a container body ended
type splitStatus struct {
	// braceDepth and bracketDepth are the counters left at the end of the
	// scan; anything other than zero means the body was unbalanced.
	braceDepth   int
	bracketDepth int
	// wentNegative is set when a closer appeared before its opener
	wentNegative bool
	inString     bool
	// empty counts segments dropped because they held only whitespace
	empty int
}

func (s splitStatus) balanced() bool {
	return s.braceDepth == 0 && s.bracketDepth == 0 && !s.wentNegative && !s.inString
}

// splitTopLevel splits the inner text of an object or array at commas that
// sit outside quoted strings and outside nested braces and brackets.
// Segments are trimmed; whitespace-only segments are dropped and counted.
func splitTopLevel(body string) ([]string, splitStatus) {
	var (
		parts  []string
		status splitStatus
		start  int
	)

	emit := func(seg string) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			status.empty++
			return
		}
		parts = append(parts, seg)
	}

	if strings.TrimSpace(body) == "" {
		return nil, status
	}

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '"' && !escapedAt(body, i) {
			status.inString = !status.inString
			continue
		}
		if status.inString {
			continue
		}
		switch c {
		case '{':
			status.braceDepth++
		case '}':
			status.braceDepth--
		case '[':
			status.bracketDepth++
		case ']':
			status.bracketDepth--
		case ',':
			if status.braceDepth == 0 && status.bracketDepth == 0 {
				emit(body[start:i])
				start = i + 1
			}
		}
		if status.braceDepth < 0 || status.bracketDepth < 0 {
			status.wentNegative = true
		}
	}

	// A trailing comma leaves an empty tail, which is not a segment.
	tail := strings.TrimSpace(body[start:])
	if tail != "" {
		parts = append(parts, tail)
	} else if start > 0 {
		status.empty++
	}

	return parts, status
}

// indexColon returns the index of the first ':' outside a quoted string,
// or -1 when there is none.
func indexColon(segment string) int {
	inString := false
	for i := 0; i < len(segment); i++ {
		switch segment[i] {
		case '"':
			if !escapedAt(segment, i) {
				inString = !inString
			}
		case ':':
			if !inString {
				return i
			}
		}
	}
	return -1
}
