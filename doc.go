// Package csvkit provides a dialect-aware CSV document abstraction for Go
// with configurable delimiters, byte-order-mark handling, and stackable
// byte-stream filters.
//
// A [Document] binds a resource (a file path, an open [Handle], or an
// in-memory [Buffer]) to a [Dialect], a BOM policy, and a [FilterChain].
// Reader and writer views derived from a Document share the resource
// reference and carry independent copies of every configuration field.
//
// # Basic Usage
//
//	doc, err := csvkit.Open("data.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	records, err := doc.Records()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer records.Close()
//
//	for records.Next() {
//	    fmt.Println(records.Record())
//	}
//	if err := records.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Dialects
//
// The dialect is the triple (delimiter, enclosure, escape) governing how a
// line splits into fields. All three bytes must be distinct:
//
//	doc, _ := csvkit.Open("data.csv",
//	    csvkit.WithDelimiter(';'),
//	    csvkit.WithEnclosure('\''),
//	)
//
// Parsing is permissive: malformed quoting degrades to a best-effort field
// reconstruction and is never an error.
//
// # Byte-Order Marks
//
// A leading BOM on the first record is detected and stripped by default.
// The five recognized marks are exposed as [BOMUTF8], [BOMUTF16BE],
// [BOMUTF16LE], [BOMUTF32BE], and [BOMUTF32LE]; writers can be told to
// emit one:
//
//	w, _ := doc.NewWriter("w")
//	w.SetOutputBOM(csvkit.BOMUTF8)
//
// # Filters
//
// Filters are named byte-stream transforms registered through
// [RegisterFilter] and applied around the raw resource when it is opened.
// Built-in filters live in subpackages and self-register on import:
//
//	import (
//	    _ "github.com/gobeaver/csvkit/filter/charset"
//	    _ "github.com/gobeaver/csvkit/filter/gzip"
//	)
//
//	doc, _ := csvkit.Open("data.csv.gz")
//	_ = doc.AppendFilter("zlib.gzip", nil, csvkit.FilterBoth)
//
// The first filter appended to a chain is the outermost transform; see
// [FilterChain.ResolveReader] for the exact nesting order.
//
// # Derived Views
//
// [Document.NewReader] and [Document.NewWriter] clone the document's
// configuration onto a new view bound to the same resource. Mutating a
// derived view never affects its parent:
//
//	w, _ := doc.NewWriter("a")
//	_ = w.WriteRecord([]string{"a", "b", "c"})
//	_ = w.Close()
//
// # Error Handling
//
// csvkit exposes sentinel errors plus helper predicates:
//
//	_, err := doc.Records()
//	if csvkit.IsInvalidPath(err) {
//	    // resource could not be opened
//	}
//
//	var pathErr *csvkit.PathError
//	if errors.As(err, &pathErr) {
//	    fmt.Printf("Operation: %s, Path: %s\n", pathErr.Op, pathErr.Path)
//	}
//
// # Configuration
//
// Documents can be configured via environment variables with the CSVKIT_
// prefix, or programmatically via the [Config] struct:
//
//	cfg := &csvkit.Config{Delimiter: ";", Filters: "zlib.gzip"}
//	doc, err := csvkit.NewFromConfig("data.csv.gz", cfg)
package csvkit
