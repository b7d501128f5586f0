// Package diag defines the diagnostic model shared by every analysis component.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by the
//     lexer, the scope tracker and the declaration recognizer.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// Package diag does not format for terminals or perform IO. Rendering lives in
// internal/diagfmt; collection per file is done by internal/scan and internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//     LEX codes come from the lexer, SCP from the scope tracker, DCL from the
//     declaration stage, IO and CFG from the driver and configuration layers.
//   - Message – short human oriented text.
//   - Primary – the source.Span pointing at the issue.
//   - Notes – optional secondary spans such as "scope opened here".
//
// Source problems (unterminated literals, unbalanced braces) are always warnings:
// a file's analysis completes and its partial manifest is kept. Errors are
// reserved for failures outside the text, such as a file that cannot be read.
//
// # Emitting diagnostics
//
// Producers receive a Reporter. ReportWarning / ReportError return a
// ReportBuilder that can attach notes before Emit. BagReporter stores into a Bag,
// which supports capping, sorting and deduplication.
package diag
