package xmlpath

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// ErrMalformedDocument indicates a document that is not well-formed XML.
var ErrMalformedDocument = errors.New("malformed XML document")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadXML reads and parses a well-formed XML document.
// A missing file returns an error wrapping fs.ErrNotExist; a parse failure
// returns an error wrapping ErrMalformedDocument.
func LoadXML(path string) (*etree.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := ParseXML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseXML parses XML content. Declared non-UTF-8 encodings are decoded and
// HTML named entities (&nbsp; and friends) are accepted.
func ParseXML(data []byte) (*etree.Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.Entity = xml.HTMLEntity
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}
	return doc, nil
}

// Elements returns the elements selected by the query's element steps, in
// document order. The attribute projection, if any, is ignored.
func (q Query) Elements(doc *etree.Document) []*etree.Element {
	if doc == nil || doc.Root() == nil || len(q.steps) == 0 {
		return nil
	}

	var current []*etree.Element
	walkElements(doc.Root(), func(el *etree.Element) {
		if q.steps[0].matches(el.Tag, elementAttr(el)) {
			current = append(current, el)
		}
	})

	for _, st := range q.steps[1:] {
		var next []*etree.Element
		seen := make(map[*etree.Element]bool)
		for _, parent := range current {
			for _, child := range parent.ChildElements() {
				if seen[child] || !st.matches(child.Tag, elementAttr(child)) {
					continue
				}
				seen[child] = true
				next = append(next, child)
			}
		}
		current = next
	}
	return current
}

// Values returns the projected attribute value of every selected element
// that carries the attribute. Without a projection it returns the elements'
// text content.
func (q Query) Values(doc *etree.Document) []string {
	var values []string
	for _, el := range q.Elements(doc) {
		if q.attr == "" {
			values = append(values, el.Text())
			continue
		}
		if v, ok := elementAttr(el)(q.attr); ok {
			values = append(values, v)
		}
	}
	return values
}

// ElementAttr returns the value of the attribute with the given local name.
func ElementAttr(el *etree.Element, name string) (string, bool) {
	return elementAttr(el)(localName(name))
}

func walkElements(el *etree.Element, fn func(*etree.Element)) {
	fn(el)
	for _, child := range el.ChildElements() {
		walkElements(child, fn)
	}
}

// elementAttr looks attributes up by local name, ignoring namespace
// declarations.
func elementAttr(el *etree.Element) func(string) (string, bool) {
	return func(name string) (string, bool) {
		for _, a := range el.Attr {
			if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
				continue
			}
			if a.Key == name {
				return a.Value, true
			}
		}
		return "", false
	}
}
