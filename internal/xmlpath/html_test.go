package xmlpath

import (
	"reflect"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustParseHTML(t *testing.T, content string) *goquery.Document {
	t.Helper()
	doc, err := ParseHTML([]byte(content))
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	return doc
}

func TestNodes_BodyChildren(t *testing.T) {
	doc := mustParseHTML(t, `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>T</title></head>
<body><h1>Title</h1><p>One</p><div><p>Two</p></div></body>
</html>`)

	sel := Path("html", "body", Wildcard).Nodes(doc)
	if sel.Length() != 3 {
		t.Fatalf("Length() = %d, want 3", sel.Length())
	}
	var names []string
	sel.Each(func(_ int, s *goquery.Selection) {
		names = append(names, goquery.NodeName(s))
	})
	if !reflect.DeepEqual(names, []string{"h1", "p", "div"}) {
		t.Errorf("names = %v", names)
	}
}

func TestNodes_TagSoupRecovery(t *testing.T) {
	doc := mustParseHTML(t, `<html><body><p>One<p>Two<div>Three`)

	got := Path("html", "body", Wildcard).HTMLValues(doc)
	want := []string{"One", "Two", "Three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("values = %q, want %q", got, want)
	}
}

func TestNodes_MissingBodySynthesized(t *testing.T) {
	doc := mustParseHTML(t, `<p>loose paragraph</p>`)

	got := Path("html", "body", "p").HTMLValues(doc)
	if !reflect.DeepEqual(got, []string{"loose paragraph"}) {
		t.Errorf("values = %q", got)
	}
}

func TestHTMLValues_AttributeProjection(t *testing.T) {
	doc := mustParseHTML(t, `<html><body>
<section epub:type="chapter" id="s1"><p>x</p></section>
<section id="s2"></section>
</body></html>`)

	got := Path("body", "section").Attr("type").HTMLValues(doc)
	if !reflect.DeepEqual(got, []string{"chapter"}) {
		t.Errorf("types = %q", got)
	}

	ids := Path("body", "section").Where("id", "s2").Attr("id").HTMLValues(doc)
	if !reflect.DeepEqual(ids, []string{"s2"}) {
		t.Errorf("ids = %q", ids)
	}
}

func TestParseHTML_MetaCharset(t *testing.T) {
	content := append([]byte(`<html><head><meta charset="iso-8859-1"></head><body><p>caf`), 0xE9, '<', '/', 'p', '>')
	doc := mustParseHTML(t, string(content))

	got := Path("body", "p").HTMLValues(doc)
	if len(got) != 1 || got[0] != "café" {
		t.Errorf("text = %q, want café", got)
	}
}

func TestParseHTML_UTF8KeptWithoutDeclaration(t *testing.T) {
	doc := mustParseHTML(t, "<html><body><p>日本語</p></body></html>")

	got := Path("body", "p").HTMLValues(doc)
	if len(got) != 1 || got[0] != "日本語" {
		t.Errorf("text = %q", got)
	}
}

func TestNodes_NilDocument(t *testing.T) {
	if n := Path("html").Nodes(nil).Length(); n != 0 {
		t.Errorf("Length() = %d, want 0", n)
	}
}
