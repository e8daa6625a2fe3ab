package diagfmt

import (
	"encoding/json"
	"io"

	"plexus/internal/diag"
)

// LocationJSON представляет местоположение в файле для JSON.
// Строки и колонки считаются с единицы.
type LocationJSON struct {
	File      string `json:"file"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// WarningJSON представляет предупреждение в JSON формате
type WarningJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// WarningsOutput представляет корневую структуру JSON вывода
type WarningsOutput struct {
	Warnings []WarningJSON `json:"warnings"`
	Count    int           `json:"count"`
}

func makeLocation(w diag.Warning, opts JSONOpts) LocationJSON {
	r := w.SourceRange
	loc := LocationJSON{File: formatPath(r.File, opts.PathMode, opts.BaseDir)}
	if opts.IncludePositions {
		loc.StartLine = r.Start.Line + 1
		loc.StartCol = r.Start.Column + 1
		loc.EndLine = r.End.Line + 1
		loc.EndCol = r.End.Column + 1
	}
	return loc
}

// BuildWarningsOutput формирует структуру JSON-вывода без сериализации.
func BuildWarningsOutput(ws []diag.Warning, opts JSONOpts) WarningsOutput {
	n := len(ws)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]WarningJSON, 0, n)
	for _, w := range ws[:n] {
		out = append(out, WarningJSON{
			Severity: w.Severity.String(),
			Code:     string(w.Code),
			Message:  w.Message,
			Location: makeLocation(w, opts),
		})
	}
	return WarningsOutput{Warnings: out, Count: len(out)}
}

// JSON форматирует предупреждения в JSON формат.
func JSON(w io.Writer, ws []diag.Warning, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildWarningsOutput(ws, opts))
}
