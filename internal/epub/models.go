package epub

// Container represents the parsed META-INF/container.xml
type Container struct {
	Rootfiles []Rootfile
}

// Rootfile is a package document entry in container.xml
type Rootfile struct {
	FullPath  string
	MediaType string
}

// Package represents a parsed package (OPF) document
type Package struct {
	Path          string                  // absolute path of the OPF file
	Manifest      map[string]ManifestItem // id -> item
	ManifestOrder []string                // manifest ids in declaration order
	Spine         []SpineItem
	DuplicateIDs  []string                // manifest ids declared more than once; the first declaration is kept
}

// ManifestItem represents an item in the manifest
type ManifestItem struct {
	ID        string
	Href      string // as written in the OPF, relative to the OPF directory
	MediaType string
}

// SpineItem represents an item reference in the spine
type SpineItem struct {
	IDRef  string
	Linear bool
}

// ContentDocument is a spine entry resolved through the manifest.
type ContentDocument struct {
	ID   string // manifest id
	Href string // manifest href
	Path string // absolute filesystem path, fragment and query removed
}

// TextBlock holds the extracted text of one content document,
// one line per top-level body child.
type TextBlock []string
