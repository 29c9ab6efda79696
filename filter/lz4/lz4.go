// Package lz4 registers the "lz4" stream filter: LZ4 frame compression on
// write and decompression on read.
//
// Import it for side effects:
//
//	import _ "github.com/gobeaver/csvkit/filter/lz4"
package lz4

import (
	"io"

	plz4 "github.com/pierrec/lz4/v4"

	"github.com/gobeaver/csvkit"
)

// Name is the filter name this package registers.
const Name = "lz4"

func init() {
	csvkit.RegisterFilter(Name, csvkit.Filter{
		NewReader: newReader,
		NewWriter: newWriter,
	})
}

func newReader(r io.Reader, _ csvkit.Params) (io.ReadCloser, error) {
	return io.NopCloser(plz4.NewReader(r)), nil
}

func newWriter(w io.Writer, _ csvkit.Params) (csvkit.WriteFlushCloser, error) {
	return plz4.NewWriter(w), nil
}
