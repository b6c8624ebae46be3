package converter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yuanying/epub2txt/internal/epub"
)

// StageOutput names failures writing the text file.
const StageOutput epub.StageName = "output"

const outputMode fs.FileMode = 0o644

var (
	ErrOutputIO         = errors.New("failed to write output")
	ErrNothingExtracted = errors.New("no text extracted")
)

// ConvertOptions holds options for the conversion pipeline.
type ConvertOptions struct {
	InputPath  string
	OutputPath string
	Logger     *slog.Logger
	// Strict makes skipped spine entries and unreadable content documents fatal.
	Strict bool
	// LinearOnly leaves out spine items marked linear="no".
	LinearOnly bool
}

// Result summarizes a conversion.
type Result struct {
	Documents int // content documents written, including empty blocks
	Skipped   int // content documents that could not be read
	Lines     int
	Warnings  int
}

// Pipeline orchestrates the EPUB to text conversion.
type Pipeline struct {
	Options ConvertOptions
}

// NewPipeline creates a new conversion pipeline.
func NewPipeline(opts ConvertOptions) *Pipeline {
	return &Pipeline{Options: opts}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Options.Logger == nil {
		return slog.Default()
	}
	return p.Options.Logger
}

// Convert stages the archive, resolves its reading order and writes the text
// of every content document to the output file. The scratch directory is
// removed on every return path.
//
// When recoverable problems occurred and no text was extracted at all,
// Convert returns the partial Result together with ErrNothingExtracted.
func (p *Pipeline) Convert(ctx context.Context) (*Result, error) {
	logger := p.logger()

	scratch, err := epub.Stage(p.Options.InputPath, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := scratch.Release(); err != nil {
			logger.Warn("failed to remove scratch directory", "dir", scratch.Dir, "error", err)
		}
	}()
	logger.Info("archive staged", "dir", scratch.Dir, "entries", len(scratch.Files))

	res := &Result{}
	docs, err := epub.ResolveReadingOrder(scratch.Dir, epub.ResolveOptions{
		Logger:     logger,
		Strict:     p.Options.Strict,
		LinearOnly: p.Options.LinearOnly,
		OnWarning:  func(error) { res.Warnings++ },
	})
	if err != nil {
		return nil, err
	}

	if err := p.writeText(ctx, scratch.Dir, docs, res); err != nil {
		return nil, err
	}

	if res.Warnings > 0 && res.Lines == 0 {
		return res, ErrNothingExtracted
	}

	logger.Info("text written",
		"output", p.Options.OutputPath,
		"documents", res.Documents,
		"lines", res.Lines,
		"warnings", res.Warnings,
	)
	return res, nil
}

// writeText extracts each content document in order and streams it to a
// temporary file next to the output, which replaces the output only once
// every document has been written.
func (p *Pipeline) writeText(ctx context.Context, root string, docs []epub.ContentDocument, res *Result) (err error) {
	logger := p.logger()
	outputPath := p.Options.OutputPath

	f, err := os.CreateTemp(filepath.Dir(outputPath), "."+filepath.Base(outputPath)+".*.tmp")
	if err != nil {
		return outputError(outputPath, err)
	}
	tmpPath := f.Name()
	defer func() {
		if err == nil {
			return
		}
		f.Close()
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			logger.Warn("failed to remove partial output", "path", tmpPath, "error", rmErr)
		}
	}()

	w := NewTextWriter(f)
	for _, doc := range docs {
		rel, relErr := filepath.Rel(root, doc.Path)
		if relErr != nil {
			rel = doc.Path
		}
		rel = filepath.ToSlash(rel)

		if err := ctx.Err(); err != nil {
			return &epub.StageError{Stage: epub.StageContent, Path: rel, Err: err}
		}
		logger.Info("extracting content document", "path", rel)

		block, err := epub.ExtractText(doc.Path)
		if err != nil {
			if p.Options.Strict {
				return err
			}
			logger.Warn("writing empty block for unreadable content document", "error", err)
			res.Warnings++
			res.Skipped++
			block = nil
		}

		if err := w.WriteBlock(block); err != nil {
			return outputError(outputPath, err)
		}
		res.Documents++
		res.Lines += len(block)
	}

	if err := w.Flush(); err != nil {
		return outputError(outputPath, err)
	}
	if err := f.Chmod(outputMode); err != nil {
		return outputError(outputPath, err)
	}
	if err := f.Close(); err != nil {
		return outputError(outputPath, err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return outputError(outputPath, err)
	}
	return nil
}

func outputError(path string, err error) error {
	return &epub.StageError{Stage: StageOutput, Path: path, Err: fmt.Errorf("%w: %w", ErrOutputIO, err)}
}
