package epub

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
	"github.com/yuanying/epub2txt/internal/xmlpath"
)

// bodyChildQuery selects the top-level elements of the document body.
var bodyChildQuery = xmlpath.Path("html", "body", xmlpath.Wildcard)

// invisibleSelector matches elements whose text is never rendered.
const invisibleSelector = "script, style, template"

var invisibleElements = map[string]bool{
	"script":   true,
	"style":    true,
	"template": true,
}

// ExtractText returns the text of a content document, one line per
// top-level body child. Well-formed XHTML is read as XML so that
// self-closing elements such as <a id="p1"/> stay empty; anything else is
// parsed in tag-soup tolerant mode.
func ExtractText(path string) (TextBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stageError(StageContent, path, fmt.Errorf("%w: %w", ErrContentDocument, err))
	}

	if doc, err := xmlpath.ParseXML(data); err == nil {
		return ExtractXMLText(doc), nil
	}

	doc, err := xmlpath.ParseHTML(data)
	if err != nil {
		return nil, stageError(StageContent, path, fmt.Errorf("%w: %w", ErrContentDocument, err))
	}
	return ExtractDocumentText(doc), nil
}

// ExtractXMLText is ExtractDocumentText for documents parsed as XML.
func ExtractXMLText(doc *etree.Document) TextBlock {
	block := TextBlock{}
	for _, el := range bodyChildQuery.Elements(doc) {
		if invisibleElements[el.Tag] {
			continue
		}
		block = append(block, elementText(el))
	}
	return block
}

// elementText concatenates the character data below el in document order.
func elementText(el *etree.Element) string {
	var b strings.Builder
	writeElementText(&b, el)
	return b.String()
}

func writeElementText(b *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			if !invisibleElements[t.Tag] {
				writeElementText(b, t)
			}
		}
	}
}

// ExtractDocumentText returns the text of every top-level body child of
// doc. Text nodes nested inside a child are concatenated in document order
// without separators. A document without body children yields an empty
// block.
func ExtractDocumentText(doc *goquery.Document) TextBlock {
	doc.Find(invisibleSelector).Remove()

	block := TextBlock{}
	bodyChildQuery.Nodes(doc).Each(func(_ int, s *goquery.Selection) {
		block = append(block, s.Text())
	})
	return block
}
