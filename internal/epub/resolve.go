package epub

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// ResolveOptions controls how the reading order is resolved.
type ResolveOptions struct {
	Logger *slog.Logger
	// Strict turns skipped spine entries into errors.
	Strict bool
	// LinearOnly drops spine items marked linear="no".
	LinearOnly bool
	// OnWarning is called for every recoverable error, after it is logged.
	OnWarning func(error)
}

func (o ResolveOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o ResolveOptions) warn(msg string, err error) {
	o.logger().Warn(msg, "error", err)
	if o.OnWarning != nil {
		o.OnWarning(err)
	}
}

// ResolveReadingOrder follows container.xml to every package document and
// returns the content documents of each spine, rootfile by rootfile, in
// reading order.
//
// A rootfile whose package document is missing or malformed is skipped;
// the call fails only when every rootfile fails, or on the first failure
// in strict mode.
func ResolveReadingOrder(dir string, opts ResolveOptions) ([]ContentDocument, error) {
	logger := opts.logger()

	container, err := LoadContainer(dir)
	if err != nil {
		return nil, err
	}
	rootfiles, err := container.PackageRootfiles(logger)
	if err != nil {
		return nil, stageError(StageContainer, containerPath, err)
	}
	logger.Info("container parsed", "rootfiles", len(rootfiles))

	var docs []ContentDocument
	var errs []error
	for _, rf := range rootfiles {
		logger.Info("parsing package document", "path", rf.FullPath)
		rfDocs, err := resolveRootfile(dir, rf, opts)
		if err != nil {
			if opts.Strict {
				return nil, err
			}
			errs = append(errs, err)
			opts.warn("skipping rootfile", err)
			continue
		}
		docs = append(docs, rfDocs...)
	}

	if len(errs) == len(rootfiles) {
		return nil, errors.Join(errs...)
	}
	return docs, nil
}

func resolveRootfile(dir string, rf Rootfile, opts ResolveOptions) ([]ContentDocument, error) {
	if !isSafePath(rf.FullPath) {
		return nil, stageError(StagePackage, rf.FullPath, fmt.Errorf("%w: path escapes archive root", ErrPackageNotFound))
	}

	opfPath, ok := findInsensitive(dir, rf.FullPath)
	if !ok {
		opfPath = filepath.Join(dir, filepath.FromSlash(rf.FullPath))
	}
	pkg, err := LoadPackage(opfPath)
	if err != nil {
		return nil, stageError(StagePackage, rf.FullPath, err)
	}
	opfDir := filepath.Dir(opfPath)
	for _, id := range pkg.DuplicateIDs {
		opts.logger().Warn("ignoring duplicate manifest item", "package", rf.FullPath, "id", id)
	}

	docs := make([]ContentDocument, 0, len(pkg.Spine))
	for _, item := range pkg.Spine {
		if opts.LinearOnly && !item.Linear {
			opts.logger().Debug("skipping non-linear spine item", "idref", item.IDRef)
			continue
		}

		mi, ok := pkg.Manifest[item.IDRef]
		if !ok {
			err := stageError(StageSpine, rf.FullPath, fmt.Errorf("%w: idref %q", ErrManifestReference, item.IDRef))
			if opts.Strict {
				return nil, err
			}
			opts.warn("skipping spine item", err)
			continue
		}

		if !isReadableMediaType(mi.MediaType) {
			err := stageError(StageSpine, rf.FullPath, fmt.Errorf("%w: %s has media type %s", ErrContentDocument, mi.Href, mi.MediaType))
			if opts.Strict {
				return nil, err
			}
			opts.warn("skipping spine item", err)
			continue
		}

		p, ok := resolveHref(dir, opfDir, mi.Href)
		if !ok {
			err := stageError(StageSpine, rf.FullPath, fmt.Errorf("%w: unusable href %q for idref %q", ErrManifestReference, mi.Href, item.IDRef))
			if opts.Strict {
				return nil, err
			}
			opts.warn("skipping spine item", err)
			continue
		}

		docs = append(docs, ContentDocument{ID: mi.ID, Href: mi.Href, Path: p})
	}
	return docs, nil
}

// isReadableMediaType reports whether a spine item can hold text. Items
// without a media type are given the benefit of the doubt.
func isReadableMediaType(mediaType string) bool {
	if mediaType == "" {
		return true
	}
	mt := strings.ToLower(mediaType)
	return strings.Contains(mt, "html") || strings.Contains(mt, "xml") || strings.HasPrefix(mt, "text/")
}
