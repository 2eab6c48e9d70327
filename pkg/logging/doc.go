// Package logging provides a thin subsystem-tagged wrapper around log/slog.
//
// All makdo components log through the package-level Debug/Info/Warn/Error
// functions, passing a short subsystem name as the first argument. The
// wrapper exists so log call sites stay printf-style while the output stays
// structured (subsystem and error become slog attributes).
package logging
