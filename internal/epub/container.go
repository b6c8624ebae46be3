package epub

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuanying/epub2txt/internal/xmlpath"
)

// containerPath is the well-known location of container.xml in an EPUB.
const containerPath = "META-INF/container.xml"

const packageMediaType = "application/oebps-package+xml"

var rootfileQuery = xmlpath.Path("container", "rootfiles", "rootfile")

// LoadContainer parses META-INF/container.xml under the extracted archive
// directory. The path is matched case-insensitively when the exact name is
// missing.
func LoadContainer(dir string) (*Container, error) {
	p, ok := findInsensitive(dir, containerPath)
	if !ok {
		return nil, stageError(StageContainer, containerPath, ErrContainerNotFound)
	}

	doc, err := xmlpath.LoadXML(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, stageError(StageContainer, containerPath, ErrContainerNotFound)
		}
		return nil, stageError(StageContainer, containerPath, err)
	}

	c := &Container{}
	for _, el := range rootfileQuery.Elements(doc) {
		fullPath, _ := xmlpath.ElementAttr(el, "full-path")
		mediaType, _ := xmlpath.ElementAttr(el, "media-type")
		c.Rootfiles = append(c.Rootfiles, Rootfile{
			FullPath:  normalizePath(strings.TrimSpace(fullPath)),
			MediaType: strings.TrimSpace(mediaType),
		})
	}
	return c, nil
}

// PackageRootfiles returns the rootfiles that point at package documents,
// in declaration order. Entries with another media type or an empty
// full-path are skipped with a warning. An empty media type is accepted.
func (c *Container) PackageRootfiles(logger *slog.Logger) ([]Rootfile, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var rootfiles []Rootfile
	for _, rf := range c.Rootfiles {
		if rf.FullPath == "" {
			logger.Warn("skipping rootfile with empty full-path")
			continue
		}
		if rf.MediaType != "" && !strings.EqualFold(rf.MediaType, packageMediaType) {
			logger.Warn("skipping rootfile with unsupported media type", "path", rf.FullPath, "media_type", rf.MediaType)
			continue
		}
		rootfiles = append(rootfiles, rf)
	}

	if len(rootfiles) == 0 {
		return nil, fmt.Errorf("%w (%d rootfile entries)", ErrNoPackageDocument, len(c.Rootfiles))
	}
	return rootfiles, nil
}

// findInsensitive resolves a slash separated relative path under dir,
// falling back to a case-insensitive match of each path segment.
func findInsensitive(dir, rel string) (string, bool) {
	exact := filepath.Join(dir, filepath.FromSlash(rel))
	if _, err := os.Stat(exact); err == nil {
		return exact, true
	}

	current := dir
	for _, segment := range strings.Split(rel, "/") {
		entries, err := os.ReadDir(current)
		if err != nil {
			return "", false
		}
		found := false
		for _, e := range entries {
			if strings.EqualFold(e.Name(), segment) {
				current = filepath.Join(current, e.Name())
				found = true
				break
			}
		}
		if !found {
			return "", false
		}
	}
	return current, true
}
