package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a warning.
type Severity uint8

const (
	// SevInfo is for informational warnings.
	SevInfo Severity = iota
	// SevWarning is for recoverable problems worth fixing.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity accepts info|warning|error in any case.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return SevInfo, nil
	case "warning", "warn":
		return SevWarning, nil
	case "error":
		return SevError, nil
	default:
		return SevInfo, fmt.Errorf("invalid severity: %q (expected: info|warning|error)", s)
	}
}
