// Package logging builds the slog logger used for console reporting.
//
// Two formats are available: "console" writes one human-readable line per
// record with an optionally colored level, and "json" writes slog JSON
// records for machine consumption.
package logging
