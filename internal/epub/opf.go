package epub

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/yuanying/epub2txt/internal/xmlpath"
)

var (
	manifestItemQuery = xmlpath.Path("package", "manifest", "item")
	spineItemQuery    = xmlpath.Path("package", "spine", "itemref")
)

// LoadPackage reads and parses the package document at path.
func LoadPackage(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrPackageNotFound, err)
		}
		return nil, fmt.Errorf("failed to read package document: %w", err)
	}

	pkg, err := ParseOPF(data)
	if err != nil {
		return nil, err
	}
	pkg.Path = path
	return pkg, nil
}

// ParseOPF parses package document content into its manifest and spine.
// Elements are matched by local name, so prefixed (opf:package) and
// unprefixed documents parse identically. When several manifest items share
// an id the first one wins.
func ParseOPF(content []byte) (*Package, error) {
	doc, err := xmlpath.ParseXML(content)
	if err != nil {
		return nil, err
	}

	pkg := &Package{
		Manifest: make(map[string]ManifestItem),
	}

	for _, el := range manifestItemQuery.Elements(doc) {
		id := attr(el, "id")
		if id == "" {
			continue
		}
		if _, dup := pkg.Manifest[id]; dup {
			pkg.DuplicateIDs = append(pkg.DuplicateIDs, id)
			continue
		}
		pkg.Manifest[id] = ManifestItem{
			ID:        id,
			Href:      attr(el, "href"),
			MediaType: attr(el, "media-type"),
		}
		pkg.ManifestOrder = append(pkg.ManifestOrder, id)
	}

	for _, el := range spineItemQuery.Elements(doc) {
		pkg.Spine = append(pkg.Spine, SpineItem{
			IDRef:  attr(el, "idref"),
			Linear: attr(el, "linear") != "no",
		})
	}

	return pkg, nil
}

func attr(el *etree.Element, name string) string {
	v, _ := xmlpath.ElementAttr(el, name)
	return strings.TrimSpace(v)
}
