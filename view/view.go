// Package view renders the folder index page.
package view

import (
	"embed"
	"html/template"
	"net/url"
	"path"
	"sort"
	"strings"

	"bucketindex/listing"
	"bucketindex/paths"

	"github.com/dustin/go-humanize"
)

// PageTemplate is the name the index page is registered under
const PageTemplate = "index.html"

//go:embed templates/*.html
var templateFS embed.FS

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".tif": true, ".tiff": true,
}

// Template parses the embedded page templates
func Template() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// Links decides where file entries point
type Links struct {
	UseProxy  bool
	ObjectURL func(key string) string
}

// FileHref returns the proxy route for key in proxy mode, the direct
// provider URL otherwise
func (l Links) FileHref(key string) string {
	if l.UseProxy || l.ObjectURL == nil {
		return paths.ProxyPrefix + url.PathEscape(key)
	}
	return l.ObjectURL(key)
}

// Entry is one row of the index
type Entry struct {
	Name     string
	Href     string
	IsImage  bool
	Size     string
	Modified string
}

// Page is the data the template renders
type Page struct {
	Prefix     string
	Title      string
	ParentHref string
	HasParent  bool
	Truncated  bool
	Folders    []Entry
	Files      []Entry
}

// NewPage builds the page for a listing. Folders and files are sorted here,
// whatever order the provider returned them in.
func NewPage(prefix string, res *listing.Result, links Links) *Page {
	p := &Page{
		Prefix:    prefix,
		Title:     prefix,
		Truncated: res.Truncated,
		Folders:   make([]Entry, 0, len(res.Folders)),
		Files:     make([]Entry, 0, len(res.Files)),
	}
	if p.Title == "" {
		p.Title = "/"
	}
	if parent, ok := paths.ParentOf(prefix); ok {
		p.ParentHref = paths.ToHref(parent)
		p.HasParent = true
	}

	folders := append([]string(nil), res.Folders...)
	sort.Strings(folders)
	for _, f := range folders {
		p.Folders = append(p.Folders, Entry{Name: f, Href: paths.ToHref(f)})
	}

	files := append([]string(nil), res.Files...)
	sort.Strings(files)
	for _, f := range files {
		e := Entry{Name: f, Href: links.FileHref(f), IsImage: IsImage(f)}
		if meta, ok := res.Meta(f); ok {
			e.Size = humanize.Bytes(uint64(max(meta.Size, 0)))
			if !meta.LastModified.IsZero() {
				e.Modified = humanize.Time(meta.LastModified)
			}
		}
		p.Files = append(p.Files, e)
	}
	return p
}

// IsImage reports whether key gets the inline preview
func IsImage(key string) bool {
	return imageExts[strings.ToLower(path.Ext(key))]
}
