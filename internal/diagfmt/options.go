package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps URLs as the analyzer reports them.
	PathModeAuto PathMode = iota
	// PathModeAbsolute joins URLs with the base directory.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// Verbosity selects how much of a warning is rendered.
type Verbosity uint8

const (
	// VerbosityOneLine prints "<path>:<line>:<col>: <SEV> <code>: <message>".
	VerbosityOneLine Verbosity = iota
	// VerbosityFull adds the source snippet with the range underlined.
	VerbosityFull
	// VerbosityCodeOnly prints only the underlined snippet.
	VerbosityCodeOnly
)

// ParseVerbosity accepts one-line|full|code-only (and short aliases).
func ParseVerbosity(s string) (Verbosity, bool) {
	switch s {
	case "one-line", "oneline", "short":
		return VerbosityOneLine, true
	case "full", "pretty":
		return VerbosityFull, true
	case "code-only", "code":
		return VerbosityCodeOnly, true
	}
	return VerbosityOneLine, false
}

// PrettyOpts configures pretty-printing of warnings.
type PrettyOpts struct {
	Color     bool
	Verbosity Verbosity
	Context   int8 // строки контекста вокруг диапазона
	PathMode  PathMode
	BaseDir   string
	Width     uint8 // максимальная ширина строки, 0 - не ограничено
}

// JSONOpts configures JSON output of warnings.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
