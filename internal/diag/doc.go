// Package diag defines the warning model shared by every analysis phase.
//
// # Purpose
//
//   - Provide deterministic value types that capture problems found while
//     loading, scanning and resolving documents.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     warnings without coupling to storage or formatting.
//
// # Two channels
//
// Recoverable problems (unresolved references, privacy-override conflicts,
// ambiguous behaviors, malformed observers) are Warnings. They are attached to
// a feature or document and never interrupt resolution.
//
// Programming errors (resolving a document twice, building indexes before
// resolution finished, a warning without a source range) panic. Scanner level
// parse failures travel as *WarningCarryingError so the analyzer can turn them
// into a Warning result for that one file.
//
// # Data model
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – stable kebab-case string, see codes.go.
//   - Message – human oriented text; keep it short and actionable.
//   - SourceRange – zero-based line/column range in the containing file.
//
// Rendering lives in internal/diagfmt.
package diag
