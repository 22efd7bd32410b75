// Package logging configures the process-wide structured logger from the
// gateway configuration. Output is slog in JSON or text form.
package logging
