package urlresolver

import "testing"

func TestResolveFrom(t *testing.T) {
	r := New("")
	tests := []struct {
		name   string
		base   string
		href   string
		want   string
		wantOK bool
	}{
		{"plain", "", "src/x-foo.html", "src/x-foo.html", true},
		{"dot prefix", "", "./src/x-foo.html", "src/x-foo.html", true},
		{"sibling", "src/x-foo.html", "x-bar.html", "src/x-bar.html", true},
		{"parent inside package", "src/a/x.html", "../b/y.html", "src/b/y.html", true},
		{"absolute path", "src/a/x.html", "/lib/y.js", "lib/y.js", true},
		{"installed sibling package", "x-foo.html", "../polymer/polymer.html", "bower_components/polymer/polymer.html", true},
		{"nested then sibling", "src/x.html", "../../polymer/polymer.html", "bower_components/polymer/polymer.html", true},
		{"escapes twice", "", "../../outside.html", "", false},
		{"query and fragment dropped", "", "src/x.html?v=2#top", "src/x.html", true},
		{"fragment only", "src/x.html", "#top", "src/x.html", true},
		{"remote", "", "https://cdn.example.com/x.js", "", false},
		{"protocol relative", "", "//cdn.example.com/x.js", "", false},
		{"data url", "", "data:text/javascript,1", "", false},
		{"empty", "", "", "", false},
		{"root only", "", "./", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.ResolveFrom(tt.base, tt.href)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ResolveFrom(%q, %q) = (%q, %v), want (%q, %v)", tt.base, tt.href, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCustomComponentDir(t *testing.T) {
	r := New("./node_modules/")
	got, ok := r.Resolve("../lit/index.js")
	if !ok || got != "node_modules/lit/index.js" {
		t.Fatalf("got (%q, %v), want node_modules/lit/index.js", got, ok)
	}
	if !r.IsExternal(got) {
		t.Errorf("IsExternal(%q) = false, want true", got)
	}
	if r.IsExternal("src/x.js") {
		t.Errorf("IsExternal(src/x.js) = true, want false")
	}
}

func TestRelative(t *testing.T) {
	r := New("")
	tests := []struct {
		from, target, want string
	}{
		{"index.html", "src/x.html", "src/x.html"},
		{"src/x.html", "src/y.html", "y.html"},
		{"src/a/x.html", "src/b/y.html", "../b/y.html"},
		{"src/x.html", "bower_components/polymer/polymer.html", "../bower_components/polymer/polymer.html"},
	}
	for _, tt := range tests {
		if got := r.Relative(tt.from, tt.target); got != tt.want {
			t.Errorf("Relative(%q, %q) = %q, want %q", tt.from, tt.target, got, tt.want)
		}
	}
}

func TestRelativeRoundTrip(t *testing.T) {
	r := New("")
	from, target := "src/a/x.html", "lib/z.js"
	got, ok := r.ResolveFrom(from, r.Relative(from, target))
	if !ok || got != target {
		t.Errorf("round trip = (%q, %v), want %q", got, ok, target)
	}
}
