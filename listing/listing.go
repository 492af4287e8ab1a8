// Package listing turns bucket listing documents into folders and files
// relative to the prefix they were requested for.
package listing

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
	"time"
)

// Result is one listing of a prefix. Folders and Files keep upstream order;
// callers sort them for display.
type Result struct {
	Prefix    string
	Folders   []string
	Files     []string
	Objects   map[string]ObjectMeta
	Truncated bool
}

// ObjectMeta carries the optional details a listing reports for a file
type ObjectMeta struct {
	Size         int64
	LastModified time.Time
}

// Meta returns the details recorded for key, if any
func (r *Result) Meta(key string) (ObjectMeta, bool) {
	m, ok := r.Objects[key]
	return m, ok
}

// Builder collects entries for a prefix, dropping the self-reference
// every provider includes for the queried folder.
type Builder struct {
	res *Result
}

// NewBuilder starts an empty result for prefix
func NewBuilder(prefix string) *Builder {
	return &Builder{res: &Result{
		Prefix:  prefix,
		Folders: []string{},
		Files:   []string{},
		Objects: map[string]ObjectMeta{},
	}}
}

// AddFolder records a common prefix
func (b *Builder) AddFolder(p string) {
	if p == b.res.Prefix {
		return
	}
	b.res.Folders = append(b.res.Folders, p)
}

// AddFile records an object key
func (b *Builder) AddFile(key string) {
	if key == b.res.Prefix {
		return
	}
	b.res.Files = append(b.res.Files, key)
}

// SetMeta attaches details to a key previously added
func (b *Builder) SetMeta(key string, m ObjectMeta) {
	if key == b.res.Prefix {
		return
	}
	b.res.Objects[key] = m
}

// MarkTruncated flags that the provider stopped before the end of the prefix
func (b *Builder) MarkTruncated() {
	b.res.Truncated = true
}

// Result returns the collected listing
func (b *Builder) Result() *Result {
	return b.res
}

// Parse extracts every <Prefix> value as a folder and every <Key> value as a
// file from a listing document. Elements are matched by name wherever they
// appear. A malformed document is not an error: parsing stops at the first
// bad token and whatever was matched so far is returned.
func Parse(body []byte, prefix string) *Result {
	b := NewBuilder(prefix)

	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false

	var (
		field   string // element whose text is being collected
		text    strings.Builder
		key     string
		meta    ObjectMeta
		hasMeta bool
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			// io.EOF or a syntax error; keep what was matched
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Contents":
				key, meta, hasMeta = "", ObjectMeta{}, false
			case "Prefix", "Key", "Size", "LastModified", "IsTruncated":
				field = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if field != "" {
				text.Write(t)
			}
		case xml.EndElement:
			name := t.Name.Local
			if name == "Contents" {
				if key != "" && hasMeta {
					b.SetMeta(key, meta)
				}
				key = ""
				continue
			}
			if name != field {
				continue
			}
			value := text.String()
			switch name {
			case "Prefix":
				b.AddFolder(value)
			case "Key":
				b.AddFile(value)
				key = value
			case "Size":
				if n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
					meta.Size = n
					hasMeta = true
				}
			case "LastModified":
				if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(value)); err == nil {
					meta.LastModified = ts
					hasMeta = true
				}
			case "IsTruncated":
				if strings.EqualFold(strings.TrimSpace(value), "true") {
					b.MarkTruncated()
				}
			}
			field = ""
		}
	}

	return b.Result()
}
