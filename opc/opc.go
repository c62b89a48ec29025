// Package opc reads and writes the zip containers used by Office Open XML
// documents. Parts are held in memory and written back in insertion order.
package opc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	ContentTypesPart = "[Content_Types].xml"
	RootRelsPart     = "_rels/.rels"

	NSRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	NSOfficeRels    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	RelTypeOfficeDocument = NSOfficeRels + "/officeDocument"
	RelTypeImage          = NSOfficeRels + "/image"
	RelTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
)

// Package is an in-memory set of named parts.
type Package struct {
	parts map[string][]byte
	order []string
}

// New returns an empty package.
func New() *Package {
	return &Package{parts: make(map[string][]byte)}
}

// Read loads every part of a zip container.
func Read(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	p := New()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", f.Name, err)
		}
		p.Set(f.Name, b)
	}
	return p, nil
}

// Clone returns a deep copy of p.
func (p *Package) Clone() *Package {
	c := New()
	for _, name := range p.order {
		c.Set(name, append([]byte(nil), p.parts[name]...))
	}
	return c
}

// Get returns a part's bytes.
func (p *Package) Get(name string) ([]byte, bool) {
	b, ok := p.parts[strings.TrimPrefix(name, "/")]
	return b, ok
}

// Has reports whether the part exists.
func (p *Package) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Set adds or replaces a part.
func (p *Package) Set(name string, data []byte) {
	name = strings.TrimPrefix(name, "/")
	if _, ok := p.parts[name]; !ok {
		p.order = append(p.order, name)
	}
	p.parts[name] = data
}

// Delete removes a part if present.
func (p *Package) Delete(name string) {
	name = strings.TrimPrefix(name, "/")
	if _, ok := p.parts[name]; !ok {
		return
	}
	delete(p.parts, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Names returns part names in insertion order.
func (p *Package) Names() []string {
	return append([]string(nil), p.order...)
}

// Write serializes the package as a zip container, content types first.
func (p *Package) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	names := p.Names()
	for i, n := range names {
		if n == ContentTypesPart && i > 0 {
			copy(names[1:i+1], names[:i])
			names[0] = n
			break
		}
	}
	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create part %s: %w", name, err)
		}
		if _, err := fw.Write(p.parts[name]); err != nil {
			return fmt.Errorf("write part %s: %w", name, err)
		}
	}
	return zw.Close()
}

// Bytes returns the serialized package.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RelsPath returns the relationships part for a source part,
// e.g. ppt/slides/slide1.xml -> ppt/slides/_rels/slide1.xml.rels.
func RelsPath(part string) string {
	part = strings.TrimPrefix(part, "/")
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// ResolveTarget resolves a relationship target relative to its source part.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(strings.TrimPrefix(source, "/")), target))
}

// RelativeTarget returns target expressed relative to the directory of source.
func RelativeTarget(source, target string) string {
	srcDir := strings.Split(path.Dir(strings.TrimPrefix(source, "/")), "/")
	tgt := strings.Split(strings.TrimPrefix(target, "/"), "/")
	if len(srcDir) == 1 && srcDir[0] == "." {
		srcDir = nil
	}
	i := 0
	for i < len(srcDir) && i < len(tgt)-1 && srcDir[i] == tgt[i] {
		i++
	}
	var parts []string
	for j := i; j < len(srcDir); j++ {
		parts = append(parts, "..")
	}
	parts = append(parts, tgt[i:]...)
	return strings.Join(parts, "/")
}
