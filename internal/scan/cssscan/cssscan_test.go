package cssscan

import (
	"context"
	"testing"

	"plexus/internal/model"
	"plexus/internal/scan"
	"plexus/internal/source"
	"plexus/internal/urlresolver"
)

func TestScanImports(t *testing.T) {
	text := "/* @import 'commented.css'; */\n" +
		"@import url(\"a.css\");\n" +
		"@import 'b.css' screen;\n" +
		"@import url(c.css);\n" +
		"p { color: red }\n"
	doc, err := New(urlresolver.New("")).Scan(context.Background(), scan.Request{URL: "styles/main.css", Text: []byte(text)})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"styles/a.css", "styles/b.css", "styles/c.css"}
	if len(doc.Features) != len(want) {
		t.Fatalf("got %d imports, want %d", len(doc.Features), len(want))
	}
	for i, f := range doc.Features {
		imp := f.(*model.ScannedImport)
		if imp.URL != want[i] {
			t.Errorf("import %d = %q, want %q", i, imp.URL, want[i])
		}
		if imp.Type != model.KindCSSImport {
			t.Errorf("import %d type = %v, want css-import", i, imp.Type)
		}
	}
	first := doc.Features[0].SourceRange()
	if first.Start != (source.Position{Line: 1, Column: 0}) {
		t.Errorf("first import starts at %v, want 1:0", first.Start)
	}
	if len(doc.Imports) != 3 {
		t.Errorf("dependencies = %v, want 3", doc.Imports)
	}
}
