package parser

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mcncl/jsonlite/internal/ctxlog"
	"github.com/mcncl/jsonlite/internal/errors" // Custom errors package
	"github.com/mcncl/jsonlite/internal/jsonlite"
)

// Options controls how documents are parsed
type Options struct {
	// Strict rejects any document the lenient parser had to recover from
	Strict bool
	// Logger receives anomaly reports at debug level; nil discards them
	Logger *slog.Logger
}

// Parse reads a document from an io.Reader. The returned Result always
// carries the best-effort structure; in strict mode an error is returned
// alongside it when anything had to be recovered.
func Parse(reader io.Reader, opts Options) (jsonlite.Result, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return jsonlite.Result{}, errors.NewInputError("failed to read input", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return jsonlite.Result{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	return decode(string(data), opts)
}

// ParseString parses a document from a string
func ParseString(document string, opts Options) (jsonlite.Result, error) {
	if strings.TrimSpace(document) == "" {
		// Provide a specific error for truly empty or whitespace-only strings
		return jsonlite.Result{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return decode(document, opts)
}

// ParseFile parses a document from a file path
func ParseFile(filePath string, opts Options) (jsonlite.Result, error) {
	if strings.TrimSpace(filePath) == "" {
		return jsonlite.Result{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		// Check if the file doesn't exist
		if os.IsNotExist(err) {
			return jsonlite.Result{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return jsonlite.Result{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger(opts).Warn("error closing file", "path", filePath, "error", err)
		}
	}()

	// Check for empty file before parsing
	stat, err := file.Stat()
	if err != nil {
		return jsonlite.Result{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return jsonlite.Result{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file, opts)
}

func decode(document string, opts Options) (jsonlite.Result, error) {
	result := jsonlite.DecodeObject(document)
	if result.OK() {
		return result, nil
	}

	log := logger(opts)
	for _, a := range result.Anomalies {
		log.Debug("recovered from malformed input", "path", a.Path, "kind", string(a.Kind), "detail", a.Detail)
	}

	if !opts.Strict {
		return result, nil
	}
	strict := &jsonlite.StrictError{Anomalies: result.Anomalies}
	return result, errors.NewParsingError(
		"document rejected in strict mode",
		fmt.Errorf("%w: %s", errors.ErrMalformed, strict.Details()),
	)
}

func logger(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return ctxlog.Discard()
}
