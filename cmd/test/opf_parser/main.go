// Test program for package document parsing
//
// Usage:
//   go run ./cmd/test/opf_parser/main.go [--linear-only] <epub-file-path>
//
// Example:
//   go run ./cmd/test/opf_parser/main.go ~/Downloads/sample.epub
//
// This program will:
// - Stage the EPUB file
// - Parse every package document named in container.xml
// - List manifest items in declaration order
// - Show spine order with linear flags
// - Show the resolved reading order

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yuanying/epub2txt/internal/epub"
)

func main() {
	linearOnly := flag.Bool("linear-only", false, `leave out spine items marked linear="no"`)
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [--linear-only] <epub-file-path>\n", os.Args[0])
		os.Exit(1)
	}

	epubPath := flag.Arg(0)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	fmt.Println("=== EPUB Package Parser Test ===")
	fmt.Printf("File: %s\n\n", epubPath)

	scratch, err := epub.Stage(epubPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error staging EPUB: %v\n", err)
		os.Exit(1)
	}
	defer scratch.Release()

	container, err := epub.LoadContainer(scratch.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading container: %v\n", err)
		os.Exit(1)
	}
	rootfiles, err := container.PackageRootfiles(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading container: %v\n", err)
		os.Exit(1)
	}

	for _, rf := range rootfiles {
		fmt.Printf("--- Package %s ---\n", rf.FullPath)

		pkg, err := epub.LoadPackage(scratch.Path(rf.FullPath))
		if err != nil {
			fmt.Printf("✗ %v\n\n", err)
			continue
		}

		fmt.Printf("Manifest items: %d\n", len(pkg.ManifestOrder))
		for _, id := range pkg.ManifestOrder {
			item := pkg.Manifest[id]
			fmt.Printf("  %s: %s (%s)\n", id, item.Href, item.MediaType)
		}

		fmt.Printf("\nSpine items: %d\n", len(pkg.Spine))
		for i, spineItem := range pkg.Spine {
			linear := "yes"
			if !spineItem.Linear {
				linear = "no"
			}
			if item, ok := pkg.Manifest[spineItem.IDRef]; ok {
				fmt.Printf("  %d. %s (linear: %s)\n", i+1, item.Href, linear)
			} else {
				fmt.Printf("  %d. [ID: %s - not found in manifest] (linear: %s)\n", i+1, spineItem.IDRef, linear)
			}
		}
		fmt.Println()
	}

	docs, err := epub.ResolveReadingOrder(scratch.Dir, epub.ResolveOptions{
		Logger:     logger,
		LinearOnly: *linearOnly,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving reading order: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("--- Reading order ---")
	for i, doc := range docs {
		rel, err := filepath.Rel(scratch.Dir, doc.Path)
		if err != nil {
			rel = doc.Path
		}
		fmt.Printf("  %d. %s -> %s\n", i+1, doc.ID, filepath.ToSlash(rel))
	}

	fmt.Println("\n=== Test Completed Successfully ===")
}
