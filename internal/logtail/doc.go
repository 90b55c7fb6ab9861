// Package logtail reads the tail of Stockroom's own log file and renders
// its JSON entries as short human-readable lines for the activity view.
//
// # Reading
//
// Read uses a ring buffer so only the last maxLines are held in memory,
// regardless of file size:
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// A missing file is not an error; it simply yields no lines.
//
// # Formatting
//
// The application logs with zap's JSON encoder. Parse decodes one line with
// go-faster/jx and Format renders it as
//
//	10:20:30 WARN [stockroom.catalog] Request failed status=500 request_id=abc
//
// Caller and stacktrace keys are dropped. Values containing whitespace are
// quoted. Lines that are not JSON objects pass through unchanged.
package logtail
