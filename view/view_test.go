package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"bucketindex/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsorted() *listing.Result {
	b := listing.NewBuilder("a/b/")
	b.AddFolder("a/b/zeta/")
	b.AddFolder("a/b/alpha/")
	b.AddFile("a/b/z.txt")
	b.AddFile("a/b/Photo.JPG")
	b.AddFile("a/b/m.bin")
	b.SetMeta("a/b/z.txt", listing.ObjectMeta{Size: 2048, LastModified: time.Now().Add(-time.Hour)})
	return b.Result()
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestNewPageSortsEntries(t *testing.T) {
	res := unsorted()
	p := NewPage("a/b/", res, Links{UseProxy: true})

	assert.Equal(t, []string{"a/b/alpha/", "a/b/zeta/"}, names(p.Folders))
	assert.Equal(t, []string{"a/b/Photo.JPG", "a/b/m.bin", "a/b/z.txt"}, names(p.Files))
	// the listing itself is left in provider order
	assert.Equal(t, "a/b/zeta/", res.Folders[0])
}

func TestNewPageLinks(t *testing.T) {
	p := NewPage("a/b/", unsorted(), Links{UseProxy: true})

	assert.True(t, p.HasParent)
	assert.Equal(t, "/browser/a/", p.ParentHref)
	assert.Equal(t, "/browser/a/b/alpha/", p.Folders[0].Href)
	assert.Equal(t, "/proxy/a%2Fb%2FPhoto.JPG", p.Files[0].Href)
	assert.True(t, p.Files[0].IsImage)
	assert.False(t, p.Files[1].IsImage)
	assert.Equal(t, "2.0 kB", p.Files[2].Size)
	assert.NotEmpty(t, p.Files[2].Modified)
}

func TestNewPageDirectLinks(t *testing.T) {
	links := Links{ObjectURL: func(key string) string { return "https://bucket.example.com/" + key }}
	p := NewPage("a/b/", unsorted(), links)

	assert.Equal(t, "https://bucket.example.com/a/b/Photo.JPG", p.Files[0].Href)
}

func TestNewPageRoot(t *testing.T) {
	p := NewPage("", listing.NewBuilder("").Result(), Links{})

	assert.Equal(t, "/", p.Title)
	assert.False(t, p.HasParent)
	assert.Empty(t, p.Folders)
	assert.Empty(t, p.Files)
}

func TestNewPageSingleSegmentHasNoParent(t *testing.T) {
	p := NewPage("a/", listing.NewBuilder("a/").Result(), Links{})
	assert.False(t, p.HasParent)
}

func TestTemplateRenders(t *testing.T) {
	res := unsorted()
	res.Truncated = true
	p := NewPage("a/b/", res, Links{UseProxy: true})

	var buf bytes.Buffer
	require.NoError(t, Template().ExecuteTemplate(&buf, PageTemplate, p))
	html := buf.String()

	assert.Contains(t, html, "<title>Index of a/b/</title>")
	assert.Contains(t, html, `href="/browser/a/"`)
	assert.Contains(t, html, `class="trigger"`)
	assert.Contains(t, html, "only the first page is shown")
	assert.Less(t, strings.Index(html, "a/b/alpha/"), strings.Index(html, "a/b/zeta/"))
}

func TestIsImage(t *testing.T) {
	for _, k := range []string{"a.jpg", "b.JPEG", "c.png", "d.gif", "e.bmp", "f.webp", "g.tif", "h.TIFF"} {
		assert.True(t, IsImage(k), k)
	}
	for _, k := range []string{"a.txt", "jpg", "a.jpg.gz", "dir/"} {
		assert.False(t, IsImage(k), k)
	}
}
