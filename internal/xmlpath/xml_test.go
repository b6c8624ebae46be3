package xmlpath

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/beevik/etree"
)

const plainOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <manifest>
    <item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="c2"/>
    <itemref idref="c1"/>
  </spine>
</package>`

const prefixedOPF = `<?xml version="1.0" encoding="UTF-8"?>
<opf:package xmlns:opf="http://www.idpf.org/2007/opf" version="2.0">
  <opf:manifest>
    <opf:item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <opf:item id="c2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </opf:manifest>
  <opf:spine>
    <opf:itemref idref="c2"/>
    <opf:itemref idref="c1"/>
  </opf:spine>
</opf:package>`

func mustParseXML(t *testing.T, content string) *etree.Document {
	t.Helper()
	doc, err := ParseXML([]byte(content))
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}
	return doc
}

func TestValues_SpineOrder(t *testing.T) {
	doc := mustParseXML(t, plainOPF)

	got := Path("package", "spine", "itemref").Attr("idref").Values(doc)
	want := []string{"c2", "c1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("idrefs = %v, want %v", got, want)
	}
}

func TestValues_PredicateLookup(t *testing.T) {
	doc := mustParseXML(t, plainOPF)

	got := Path("package", "manifest", "item").Where("id", "c2").Attr("href").Values(doc)
	if !reflect.DeepEqual(got, []string{"ch2.xhtml"}) {
		t.Errorf("href = %v, want [ch2.xhtml]", got)
	}

	missing := Path("package", "manifest", "item").Where("id", "nope").Attr("href").Values(doc)
	if len(missing) != 0 {
		t.Errorf("missing id returned %v, want none", missing)
	}
}

func TestValues_PrefixIndependent(t *testing.T) {
	plain := mustParseXML(t, plainOPF)
	prefixed := mustParseXML(t, prefixedOPF)

	queries := []Query{
		Path("package", "spine", "itemref").Attr("idref"),
		Path("package", "manifest", "item").Attr("href"),
		Path("package", "manifest", "item").Where("id", "c1").Attr("href"),
	}
	for _, q := range queries {
		a, b := q.Values(plain), q.Values(prefixed)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: plain = %v, prefixed = %v", q, a, b)
		}
		if len(a) == 0 {
			t.Errorf("%s: no values", q)
		}
	}
}

func TestValues_PrefixedAttributes(t *testing.T) {
	doc := mustParseXML(t, `<package xmlns:opf="http://www.idpf.org/2007/opf">
  <spine><itemref opf:idref="a"/></spine>
</package>`)

	got := Path("package", "spine", "itemref").Attr("idref").Values(doc)
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("idrefs = %v, want [a]", got)
	}
}

func TestValues_NamespaceDeclarationIsNotAnAttribute(t *testing.T) {
	doc := mustParseXML(t, `<package xmlns="urn:x" xmlns:opf="urn:y"><item/></package>`)

	if got := Path("package").Attr("opf").Values(doc); len(got) != 0 {
		t.Errorf("xmlns:opf matched as attribute: %v", got)
	}
	if got := Path("package").Attr("xmlns").Values(doc); len(got) != 0 {
		t.Errorf("xmlns matched as attribute: %v", got)
	}
}

func TestValues_FirstStepMatchesDescendants(t *testing.T) {
	doc := mustParseXML(t, `<wrapper><container><rootfiles>
  <rootfile full-path="a.opf"/><rootfile full-path="b.opf"/>
</rootfiles></container></wrapper>`)

	got := Path("container", "rootfiles", "rootfile").Attr("full-path").Values(doc)
	if !reflect.DeepEqual(got, []string{"a.opf", "b.opf"}) {
		t.Errorf("full-paths = %v", got)
	}
}

func TestValues_WildcardAndText(t *testing.T) {
	doc := mustParseXML(t, `<root><a>one</a><b>two</b></root>`)

	got := Path("root", Wildcard).Values(doc)
	if !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Errorf("values = %v", got)
	}
}

func TestParseXML_Malformed(t *testing.T) {
	tests := []string{
		"",
		"not xml at all",
		"<package><manifest></package>",
		"<package>",
	}
	for _, in := range tests {
		if _, err := ParseXML([]byte(in)); !errors.Is(err, ErrMalformedDocument) {
			t.Errorf("ParseXML(%q) error = %v, want ErrMalformedDocument", in, err)
		}
	}
}

func TestParseXML_BOMAndHTMLEntities(t *testing.T) {
	content := "\xEF\xBB\xBF<package><title>A&nbsp;B</title></package>"
	doc, err := ParseXML([]byte(content))
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}
	got := Path("package", "title").Values(doc)
	if len(got) != 1 || got[0] != "A\u00a0B" {
		t.Errorf("title = %q", got)
	}
}

func TestParseXML_DeclaredLatin1(t *testing.T) {
	content := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><p t="caf`), 0xE9, '"', '/', '>')
	doc, err := ParseXML(content)
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}
	got := Path("p").Attr("t").Values(doc)
	if len(got) != 1 || got[0] != "café" {
		t.Errorf("t = %q, want café", got)
	}
}

func TestLoadXML_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadXML(filepath.Join(dir, "missing.xml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v, want fs.ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(bad, []byte("<a><b></a>"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadXML(bad)
	if !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("malformed file error = %v, want ErrMalformedDocument", err)
	}
}
