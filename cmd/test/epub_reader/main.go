// Test program for archive staging
//
// Usage:
//
//	go run ./cmd/test/epub_reader/main.go <epub-file> (<content-filename> ...)
//
// This program tests the following functionality:
// - Extracting the EPUB (ZIP archive) into a scratch directory
// - Listing all extracted files
// - Locating the package documents named by container.xml
// - Reading extracted file contents
// - Removing the scratch directory
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/yuanying/epub2txt/internal/epub"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/test/epub_reader/main.go <epub-file> (<content-filename> ...)")
		os.Exit(1)
	}

	epubPath := os.Args[1]
	filePaths := os.Args[2:]
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fmt.Printf("Staging EPUB file: %s\n", epubPath)
	scratch, err := epub.Stage(epubPath, logger)
	if err != nil {
		log.Fatalf("Failed to stage EPUB: %v", err)
	}
	defer func() {
		if err := scratch.Release(); err != nil {
			log.Printf("Failed to remove scratch directory: %v", err)
		}
	}()

	fmt.Printf("✓ EPUB staged in %s\n", scratch.Dir)
	fmt.Printf("Total files: %d\n", len(scratch.Files))
	fmt.Println("\nFile list:")
	for _, name := range scratch.Files {
		fmt.Printf("  - %s\n", name)
	}

	fmt.Println("\nReading META-INF/container.xml...")
	container, err := epub.LoadContainer(scratch.Dir)
	if err != nil {
		log.Fatalf("Failed to read container.xml: %v", err)
	}
	fmt.Printf("✓ container.xml parsed (%d rootfiles)\n", len(container.Rootfiles))

	rootfiles, err := container.PackageRootfiles(logger)
	if err != nil {
		log.Fatalf("No usable package document: %v", err)
	}
	for _, rf := range rootfiles {
		fmt.Printf("  - %s (%s)\n", rf.FullPath, rf.MediaType)
	}

	for _, filePath := range filePaths {
		fmt.Printf("\nReading content file: %s\n", filePath)
		content, err := os.ReadFile(scratch.Path(filePath))
		if err != nil {
			log.Fatalf("Failed to read content file %s: %v", filePath, err)
		}
		fmt.Printf("✓ Content file %s read successfully (%d bytes)\n", filePath, len(content))
		fmt.Printf("Content:\n%s\n", string(content))
	}

	fmt.Println("\n✓ All tests passed!")
}
