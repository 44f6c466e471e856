// Package jsonlite is a small, lenient codec for the JSON subset used by the
// ATM data file: objects, arrays, quoted text and decimal numbers.
//
// Parsing never fails. Input that does not have the expected shape degrades
// to an empty or partially filled container, and every recovery is recorded
// as an Anomaly on the Result returned by DecodeObject and DecodeArray.
// Callers that want strict behaviour check Result.Err.
//
// Object keys keep their insertion order when rendered, numbers keep the
// literal they were read from, and Render(indent) of a parsed document
// produces text that parses back to an equal document.
package jsonlite
