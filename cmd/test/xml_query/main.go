// Test program for element path queries
//
// Usage:
//   go run ./cmd/test/xml_query/main.go [--html] <file> <query>
//
// Example:
//   go run ./cmd/test/xml_query/main.go OEBPS/content.opf "package/manifest/item[@id='c1']/@href"
//   go run ./cmd/test/xml_query/main.go --html OEBPS/ch1.xhtml "html/body/*"
//
// The file is parsed as strict XML by default, or as tag soup with --html.
// Every matching value is printed on its own line.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/yuanying/epub2txt/internal/xmlpath"
)

func main() {
	asHTML := flag.Bool("html", false, "parse the file as HTML tag soup")
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [--html] <file> <query>\n", os.Args[0])
		os.Exit(1)
	}

	path, expr := flag.Arg(0), flag.Arg(1)
	q, err := xmlpath.ParseQuery(expr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var values []string
	if *asHTML {
		doc, err := xmlpath.LoadHTML(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		values = q.HTMLValues(doc)
	} else {
		doc, err := xmlpath.LoadXML(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		values = q.Values(doc)
	}

	fmt.Fprintf(os.Stderr, "%s: %d matches\n", q, len(values))
	for _, v := range values {
		fmt.Println(v)
	}
}
