// Package paths maps between browser paths and bucket prefixes.
//
// Prefixes are decoded strings. Decoding happens once, at the HTTP boundary;
// decoding again would corrupt keys that contain '%'. ToHref and EscapeKey
// produce the escaped form that goes back into links.
package paths

import (
	"net/url"
	"strings"
)

// Routes served by the index
const (
	BrowseRoot  = "/browser"
	ProxyPrefix = "/proxy/"
	Separator   = "/"
)

// ToPrefix converts a browsing path such as /browser/a/b into the listing
// prefix "a/b/". The browsing root maps to the empty prefix.
func ToPrefix(browserPath string) string {
	p := strings.TrimPrefix(browserPath, BrowseRoot)
	p = strings.TrimLeft(p, Separator)
	if p != "" && !strings.HasSuffix(p, Separator) {
		p += Separator
	}
	return p
}

// ParentOf returns the prefix one level up. ok is false when prefix is the
// root or a single segment, where no parent link is shown.
func ParentOf(prefix string) (parent string, ok bool) {
	segments := Segments(prefix)
	if len(segments) <= 1 {
		return "", false
	}
	return strings.Join(segments[:len(segments)-1], Separator) + Separator, true
}

// ToHref builds the escaped browsing path for prefix. Requesting the
// result yields prefix again after the server's single decode.
func ToHref(prefix string) string {
	clean := strings.Trim(prefix, Separator)
	if clean == "" {
		return BrowseRoot
	}
	return BrowseRoot + Separator + EscapeKey(clean) + Separator
}

// EscapeKey escapes each segment of a key or prefix, keeping the separators
func EscapeKey(key string) string {
	segs := strings.Split(key, Separator)
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, Separator)
}

// Segments splits a prefix into its non-empty parts
func Segments(prefix string) []string {
	parts := strings.Split(prefix, Separator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
