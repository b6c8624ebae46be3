package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxEntrySize is the maximum decompressed size of a single archive entry.
const maxEntrySize int64 = 256 * 1024 * 1024

const epubMimetype = "application/epub+zip"

// Scratch is an archive extracted into a temporary directory.
// Release removes it.
type Scratch struct {
	Dir   string
	Files []string // extracted entry paths (slash separated) in archive order
}

// Stage extracts every entry of the ZIP archive at archivePath into a new,
// uniquely named temporary directory, keeping the archive's relative layout.
// If extraction fails partway the directory is removed before returning.
func Stage(archivePath string, logger *slog.Logger) (*Scratch, error) {
	if logger == nil {
		logger = slog.Default()
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, stageError(StageArchive, archivePath, fmt.Errorf("%w: %w", ErrArchive, err))
	}
	defer zr.Close()

	dir, err := os.MkdirTemp("", "epub2txt-")
	if err != nil {
		return nil, stageError(StageArchive, archivePath, fmt.Errorf("%w: %w", ErrScratchIO, err))
	}

	s := &Scratch{Dir: dir}
	if err := s.extract(&zr.Reader); err != nil {
		if rmErr := s.Release(); rmErr != nil {
			logger.Warn("failed to remove scratch directory", "dir", dir, "error", rmErr)
		}
		return nil, stageError(StageArchive, archivePath, err)
	}

	checkMimetype(&zr.Reader, logger)
	logger.Debug("archive extracted", "dir", dir, "entries", len(s.Files))
	return s, nil
}

// Path returns the absolute path of an archive-relative entry path.
func (s *Scratch) Path(rel string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(normalizePath(rel)))
}

// Release removes the scratch directory tree. It is safe to call more than once.
func (s *Scratch) Release() error {
	if s == nil || s.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(s.Dir); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrScratchIO, s.Dir, err)
	}
	return nil
}

func (s *Scratch) extract(zr *zip.Reader) error {
	for _, f := range zr.File {
		name := normalizePath(f.Name)
		if name == "" || name == "." {
			continue
		}
		if !isSafePath(name) {
			return fmt.Errorf("%w: unsafe entry path %q", ErrArchive, f.Name)
		}

		target := filepath.Join(s.Dir, filepath.FromSlash(path.Clean(name)))
		if f.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("%w: %w", ErrScratchIO, err)
			}
			continue
		}

		if err := extractFile(f, target, maxEntrySize); err != nil {
			return err
		}
		s.Files = append(s.Files, path.Clean(name))
	}
	return nil
}

// extractFile writes a single entry to target. Read failures are archive
// errors, write failures are scratch I/O errors.
func extractFile(f *zip.File, target string, limit int64) error {
	if f.UncompressedSize64 > uint64(limit) {
		return fmt.Errorf("%w: entry %s too large: %d bytes (max %d)", ErrArchive, f.Name, f.UncompressedSize64, limit)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrScratchIO, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open entry %s: %w", ErrArchive, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScratchIO, err)
	}

	// Read up to limit+1 so a forged header size cannot hide an oversized entry.
	src := &entryReader{r: io.LimitReader(rc, limit+1)}
	n, err := io.Copy(out, src)
	closeErr := out.Close()
	switch {
	case src.err != nil:
		return fmt.Errorf("%w: read entry %s: %w", ErrArchive, f.Name, src.err)
	case err != nil:
		return fmt.Errorf("%w: write %s: %w", ErrScratchIO, target, err)
	case closeErr != nil:
		return fmt.Errorf("%w: close %s: %w", ErrScratchIO, target, closeErr)
	case n > limit:
		return fmt.Errorf("%w: entry %s decompressed size exceeds limit (%d bytes)", ErrArchive, f.Name, limit)
	}
	return nil
}

// entryReader remembers the first read error so it can be told apart from
// write errors returned by io.Copy.
type entryReader struct {
	r   io.Reader
	err error
}

func (e *entryReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && err != io.EOF && e.err == nil {
		e.err = err
	}
	return n, err
}

// checkMimetype warns when the archive does not declare itself as an EPUB.
// Extraction continues regardless.
func checkMimetype(zr *zip.Reader, logger *slog.Logger) {
	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		if f.Method != zip.Store {
			logger.Warn("mimetype entry is compressed")
		}
		rc, err := f.Open()
		if err != nil {
			logger.Warn("failed to read mimetype entry", "error", err)
			return
		}
		defer rc.Close()
		content, err := io.ReadAll(io.LimitReader(rc, 256))
		if err != nil {
			logger.Warn("failed to read mimetype entry", "error", err)
			return
		}
		if got := strings.TrimSpace(string(content)); got != epubMimetype {
			logger.Warn("unexpected mimetype", "mimetype", got, "want", epubMimetype)
		}
		return
	}
	logger.Warn("archive has no mimetype entry")
}

// normalizePath normalizes archive paths (backslashes, ./ prefix)
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(p, "./")
}

// isSafePath reports whether p stays inside the extraction root.
func isSafePath(p string) bool {
	cleaned := path.Clean(p)
	if strings.HasPrefix(cleaned, "/") || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return false
	}
	return cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}
