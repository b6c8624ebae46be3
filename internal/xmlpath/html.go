package xmlpath

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// LoadHTML reads a file and parses it with the tag-soup tolerant HTML5
// parser. Unclosed tags are auto-closed and a missing html, head or body is
// synthesized, so only read failures produce an error.
func LoadHTML(path string) (*goquery.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := ParseHTML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseHTML decodes content to UTF-8 and parses it as HTML.
func ParseHTML(data []byte) (*goquery.Document, error) {
	decoded, err := decodeHTML(data)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// decodeHTML converts data to UTF-8. Content that is already valid UTF-8 is
// kept as is; otherwise the encoding is sniffed from the BOM or a meta
// charset declaration.
func decodeHTML(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	enc, name, _ := charset.DetermineEncoding(data, "")
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s content: %w", name, err)
	}
	return decoded, nil
}

// Nodes returns the selection of elements matched by the query's element
// steps, in document order.
func (q Query) Nodes(doc *goquery.Document) *goquery.Selection {
	if doc == nil {
		return &goquery.Selection{}
	}
	return doc.FindNodes(q.htmlElements(doc)...)
}

// HTMLValues is Values for tag-soup documents.
func (q Query) HTMLValues(doc *goquery.Document) []string {
	var values []string
	q.Nodes(doc).Each(func(_ int, s *goquery.Selection) {
		if q.attr == "" {
			values = append(values, s.Text())
			return
		}
		if v, ok := nodeAttr(s.Get(0))(q.attr); ok {
			values = append(values, v)
		}
	})
	return values
}

func (q Query) htmlElements(doc *goquery.Document) []*html.Node {
	if len(q.steps) == 0 || len(doc.Nodes) == 0 {
		return nil
	}

	var current []*html.Node
	for _, root := range doc.Nodes {
		walkNodes(root, func(n *html.Node) {
			if q.steps[0].matches(localName(n.Data), nodeAttr(n)) {
				current = append(current, n)
			}
		})
	}

	for _, st := range q.steps[1:] {
		var next []*html.Node
		seen := make(map[*html.Node]bool)
		for _, parent := range current {
			for child := parent.FirstChild; child != nil; child = child.NextSibling {
				if child.Type != html.ElementNode || seen[child] {
					continue
				}
				if !st.matches(localName(child.Data), nodeAttr(child)) {
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

// walkNodes visits element nodes in document order.
func walkNodes(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkNodes(c, fn)
	}
}

func nodeAttr(n *html.Node) func(string) (string, bool) {
	return func(name string) (string, bool) {
		for _, a := range n.Attr {
			if localName(a.Key) == name {
				return a.Val, true
			}
		}
		return "", false
	}
}
