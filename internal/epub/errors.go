package epub

import (
	"errors"
	"fmt"

	"github.com/yuanying/epub2txt/internal/xmlpath"
)

var (
	ErrArchive           = errors.New("invalid EPUB archive")
	ErrScratchIO         = errors.New("scratch directory I/O failed")
	ErrContainerNotFound = errors.New("META-INF/container.xml not found")
	ErrMalformedDocument = xmlpath.ErrMalformedDocument
	ErrNoPackageDocument = errors.New("no package rootfile in container.xml")
	ErrPackageNotFound   = errors.New("package document not found")
	ErrManifestReference = errors.New("spine itemref has no manifest item")
	ErrContentDocument   = errors.New("content document could not be read")
)

// StageName names the pipeline step an error came from.
type StageName string

const (
	StageArchive   StageName = "archive"
	StageContainer StageName = "container"
	StagePackage   StageName = "package"
	StageSpine     StageName = "spine"
	StageContent   StageName = "content"
)

// StageError records the stage and document that failed.
type StageError struct {
	Stage StageName
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage StageName, path string, err error) error {
	return &StageError{Stage: stage, Path: path, Err: err}
}
