package diag

import (
	"fmt"

	"plexus/internal/source"
)

// Warning is a severity-tagged problem tied to a source range. Warnings are
// passed by value and never mutated after construction.
type Warning struct {
	Code        Code
	Message     string
	Severity    Severity
	SourceRange source.Range
}

// New builds a warning. A warning without a location is a programming error.
func New(sev Severity, code Code, rng source.Range, msg string) Warning {
	if rng.IsZero() {
		panic(fmt.Errorf("diag.New: warning %q constructed without a source range: %s", code, msg))
	}
	return Warning{
		Code:        code,
		Message:     msg,
		Severity:    sev,
		SourceRange: rng,
	}
}

// NewError is a shortcut for SevError warnings.
func NewError(code Code, rng source.Range, msg string) Warning {
	return New(SevError, code, rng, msg)
}

// NewWarning is a shortcut for SevWarning warnings.
func NewWarning(code Code, rng source.Range, msg string) Warning {
	return New(SevWarning, code, rng, msg)
}

// NewInfo is a shortcut for SevInfo warnings.
func NewInfo(code Code, rng source.Range, msg string) Warning {
	return New(SevInfo, code, rng, msg)
}

// Key identifies a warning for deduplication: same code, severity, range and message.
func (w Warning) Key() string {
	return fmt.Sprintf("%s|%d|%s|%s", w.Code, w.Severity, w.SourceRange, w.Message)
}

// String renders the one-line form; richer rendering lives in internal/diagfmt.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s %s: %s", w.SourceRange, w.Severity, w.Code, w.Message)
}

// Dedup removes repeated warnings, keeping the first occurrence.
func Dedup(ws []Warning) []Warning {
	if len(ws) < 2 {
		return ws
	}
	seen := make(map[string]struct{}, len(ws))
	out := make([]Warning, 0, len(ws))
	for _, w := range ws {
		k := w.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, w)
	}
	return out
}
