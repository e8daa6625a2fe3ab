// Package urlresolver maps the URLs written in markup and scripts onto
// package-relative URLs, the keys documents are loaded and analyzed under.
//
// A package-relative URL is slash separated, has no leading "./" and never
// climbs above the package root. References that leave the package through
// its parent directory (`../paper-button/paper-button.html`) are redirected
// into the component directory, the way installed sibling packages are laid
// out on disk.
package urlresolver

import (
	"net/url"
	"path"
	"strings"

	"plexus/internal/model"
)

// DefaultComponentDir is where sibling packages are installed.
const DefaultComponentDir = "bower_components"

// PackageResolver resolves URLs relative to one package root.
type PackageResolver struct {
	componentDir string
}

// New returns a resolver redirecting parent-relative references into
// componentDir. An empty componentDir selects DefaultComponentDir.
func New(componentDir string) *PackageResolver {
	componentDir = strings.Trim(path.Clean("/"+filepathToSlash(componentDir)), "/")
	if componentDir == "" {
		componentDir = DefaultComponentDir
	}
	return &PackageResolver{componentDir: componentDir}
}

// CanResolve reports whether raw names a file of this package or of one of
// its installed siblings. Remote URLs and protocol-relative URLs are not.
func (r *PackageResolver) CanResolve(raw string) bool {
	_, ok := r.Resolve(raw)
	return ok
}

// Resolve turns a package-relative reference into its canonical form.
func (r *PackageResolver) Resolve(raw string) (string, bool) {
	return r.ResolveFrom("", raw)
}

// ResolveFrom resolves href as written inside the document at base.
// Query strings and fragments are dropped; they never select a different
// document.
func (r *PackageResolver) ResolveFrom(base, href string) (string, bool) {
	if href == "" || strings.HasPrefix(href, "//") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "", false
	}
	p := u.Path
	if p == "" {
		// "#frag" or "?q" refers to base itself.
		if base == "" {
			return "", false
		}
		return base, true
	}
	if !strings.HasPrefix(p, "/") && base != "" {
		p = path.Join(path.Dir(base), p)
	}
	return r.clean(p)
}

func (r *PackageResolver) clean(p string) (string, bool) {
	p = strings.TrimPrefix(p, "/")
	// Count how far p climbs above the root before cleaning swallows it.
	depth, escape := 0, 0
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				escape++
				depth = 0
			}
		default:
			depth++
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	switch {
	case cleaned == "":
		return "", false
	case escape == 0:
		return cleaned, true
	case escape == 1:
		return path.Join(r.componentDir, cleaned), true
	default:
		return "", false
	}
}

// Relative renders target relative to the directory of from, the form an
// author would write in an import inside from.
func (r *PackageResolver) Relative(from, target string) string {
	fromDir := strings.Split(path.Dir(from), "/")
	if fromDir[0] == "." {
		fromDir = nil
	}
	to := strings.Split(target, "/")
	i := 0
	for i < len(fromDir) && i < len(to)-1 && fromDir[i] == to[i] {
		i++
	}
	var b strings.Builder
	for range fromDir[i:] {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(to[i:], "/"))
	return b.String()
}

// IsExternal reports whether url belongs to an installed dependency rather
// than to the package itself.
func (r *PackageResolver) IsExternal(u string) bool {
	if strings.HasPrefix(u, r.componentDir+"/") {
		return true
	}
	return model.IsExternal(u)
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

var _ model.URLResolver = (*PackageResolver)(nil)
