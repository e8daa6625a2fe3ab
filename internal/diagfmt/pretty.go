package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"plexus/internal/diag"
	"plexus/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, mark    *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan),
		code:   mk(color.Faint),
		path:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		mark:   mk(color.FgRed, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty пишет предупреждения в человекочитаемом виде, по одному блоку на
// предупреждение. fs даёт доступ к тексту файлов для сниппетов и может быть nil.
func Pretty(w io.Writer, ws []diag.Warning, fs *source.FileSet, opts PrettyOpts) error {
	for i, warning := range ws {
		if i > 0 && opts.Verbosity != VerbosityOneLine {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, Format(warning, fs, opts)); err != nil {
			return err
		}
	}
	return nil
}

// Format renders a single warning.
func Format(warning diag.Warning, fs *source.FileSet, opts PrettyOpts) string {
	p := newPalette(opts.Color)
	var b strings.Builder
	if opts.Verbosity != VerbosityCodeOnly {
		r := warning.SourceRange
		fmt.Fprintf(&b, "%s:%d:%d: %s %s: %s\n",
			p.path.Sprint(formatPath(r.File, opts.PathMode, opts.BaseDir)),
			r.Start.Line+1, r.Start.Column+1,
			p.severity(warning.Severity).Sprint(warning.Severity.String()),
			p.code.Sprint(string(warning.Code)),
			warning.Message)
	}
	if opts.Verbosity == VerbosityOneLine {
		return b.String()
	}
	if snippet := codeSnippet(warning.SourceRange, fs, opts, p); snippet != "" {
		b.WriteString(snippet)
	}
	return b.String()
}

// codeSnippet prints the lines of r with the covered text underlined.
func codeSnippet(r source.Range, fs *source.FileSet, opts PrettyOpts, p palette) string {
	if fs == nil {
		return ""
	}
	f, ok := fs.Lookup(r.File)
	if !ok {
		return ""
	}
	ctx := uint32(max(opts.Context, 0))
	first := r.Start.Line
	if first >= ctx {
		first -= ctx
	} else {
		first = 0
	}
	last := r.End.Line + ctx
	if n := f.LineCount(); n > 0 && last >= uint32(n) {
		last = uint32(n) - 1
	}
	gutterWidth := len(fmt.Sprint(last + 1))

	var b strings.Builder
	for line := first; line <= last; line++ {
		text := strings.ReplaceAll(f.Line(line), "\t", "    ")
		text = clip(text, int(opts.Width))
		fmt.Fprintf(&b, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, line+1), text)
		if line < r.Start.Line || line > r.End.Line {
			continue
		}
		raw := f.Line(line)
		startCol := 0
		if line == r.Start.Line {
			startCol = int(r.Start.Column)
		}
		endCol := len(raw)
		if line == r.End.Line {
			endCol = int(r.End.Column)
		}
		pad, width := underline(raw, startCol, endCol)
		if width == 0 && line != r.Start.Line {
			continue
		}
		mark := "^" + strings.Repeat("~", max(width-1, 0))
		fmt.Fprintf(&b, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", gutterWidth, ""),
			strings.Repeat(" ", pad), p.mark.Sprint(mark))
	}
	return b.String()
}

// underline returns the display offset and width of raw[start:end], counting
// wide runes and tabs the same way the snippet line is printed.
func underline(raw string, start, end int) (int, int) {
	start = min(max(start, 0), len(raw))
	end = min(max(end, start), len(raw))
	return displayWidth(raw[:start]), displayWidth(raw[start:end])
}

func displayWidth(s string) int {
	return runewidth.StringWidth(strings.ReplaceAll(s, "\t", "    "))
}

func clip(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
