package paths

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPrefix(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/browser", want: ""},
		{path: "/browser/", want: ""},
		{path: "/browser/a", want: "a/"},
		{path: "/browser/a/", want: "a/"},
		{path: "/browser/a/b c", want: "a/b c/"},
		{path: "/browser/100%25", want: "100%25/"},
		{path: "/browser//x", want: "x/"},
		{path: "/browser///a/b", want: "a/b/"},
		{path: "/browser//", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPrefix(tt.path))
		})
	}
}

func TestParentOf(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
		ok     bool
	}{
		{prefix: "", ok: false},
		{prefix: "a/", ok: false},
		{prefix: "a/b/", want: "a/", ok: true},
		{prefix: "a/b/c/", want: "a/b/", ok: true},
		{prefix: "a//b/", want: "a/", ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, ok := ParentOf(tt.prefix)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToHref(t *testing.T) {
	assert.Equal(t, "/browser", ToHref(""))
	assert.Equal(t, "/browser", ToHref("/"))
	assert.Equal(t, "/browser/a/", ToHref("a/"))
	assert.Equal(t, "/browser/a/b/", ToHref("/a/b"))
	assert.Equal(t, "/browser/what%3F/", ToHref("what?/"))
	assert.Equal(t, "/browser/c%23d/", ToHref("c#d/"))
	assert.Equal(t, "/browser/rate%2541/", ToHref("rate%41/"))
	assert.Equal(t, "/browser/x%20y/z%25z/", ToHref("x y/z%z/"))
}

func TestEscapeKey(t *testing.T) {
	assert.Equal(t, "a/b%20c/d%25e.txt", EscapeKey("a/b c/d%e.txt"))
	assert.Equal(t, "a%3Fb/c%23d", EscapeKey("a?b/c#d"))
	assert.Equal(t, "", EscapeKey(""))
}

// decoded mirrors the single decode net/http applies to URL.Path
func decoded(t *testing.T, href string) string {
	t.Helper()
	u, err := url.Parse(href)
	if !assert.NoError(t, err) {
		return ""
	}
	assert.Empty(t, u.RawQuery, href)
	assert.Empty(t, u.Fragment, href)
	return u.Path
}

func TestHrefRoundTrip(t *testing.T) {
	for _, p := range []string{"/browser", "/browser/", "/browser/a", "/browser/a/b/", "/browser/x y/z%z"} {
		t.Run(p, func(t *testing.T) {
			once := ToHref(ToPrefix(p))
			assert.Equal(t, once, ToHref(ToPrefix(decoded(t, once))))
		})
	}
	prefixes := []string{"", "a/", "a/b/", "data/2024-01/", "what?/", "c#d/", "rate%41/", "a%41?#/", "x y/100%/"}
	for _, prefix := range prefixes {
		t.Run(prefix, func(t *testing.T) {
			assert.Equal(t, prefix, ToPrefix(decoded(t, ToHref(prefix))))
		})
	}
}

func TestSegments(t *testing.T) {
	assert.Empty(t, Segments(""))
	assert.Equal(t, []string{"a", "b"}, Segments("/a//b/"))
}
