package epub

import (
	"net/url"
	"path/filepath"
	"strings"
)

// splitFragment splits an href into the resource path and the fragment
// identifier. A query suffix is dropped with the fragment.
func splitFragment(href string) (path, fragment string) {
	if href == "" {
		return "", ""
	}
	path, fragment, _ = strings.Cut(href, "#")
	path, _, _ = strings.Cut(path, "?")
	return path, fragment
}

// resolveHref resolves a manifest href against the package document's
// directory. It reports false for remote, absolute or empty hrefs and for
// hrefs that escape root.
func resolveHref(root, opfDir, href string) (string, bool) {
	p, _ := splitFragment(strings.TrimSpace(href))
	if p == "" {
		return "", false
	}
	if isRemoteHref(p) {
		return "", false
	}
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	if strings.HasPrefix(p, "/") || filepath.IsAbs(p) {
		return "", false
	}

	resolved := filepath.Join(opfDir, filepath.FromSlash(normalizePath(p)))
	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return resolved, true
}

// opaqueSchemes are URI schemes that never name a file in the archive even
// without a "//" authority.
var opaqueSchemes = map[string]bool{
	"data":       true,
	"mailto":     true,
	"tel":        true,
	"urn":        true,
	"javascript": true,
}

// isRemoteHref reports whether href carries a real URI scheme. A colon in a
// relative file name such as part:1.xhtml is not a scheme.
func isRemoteHref(href string) bool {
	u, err := url.Parse(href)
	if err != nil || u.Scheme == "" {
		return false
	}
	if opaqueSchemes[strings.ToLower(u.Scheme)] {
		return true
	}
	return strings.HasPrefix(href[len(u.Scheme)+1:], "//")
}
