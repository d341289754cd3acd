// Package logging builds the process-wide slog.Logger from configuration:
// level, output format and source annotation.
package logging
