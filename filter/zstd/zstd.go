// Package zstd registers the "zstd" stream filter: Zstandard compression
// on write and decompression on read.
//
// Import it for side effects:
//
//	import _ "github.com/gobeaver/csvkit/filter/zstd"
package zstd

import (
	"io"

	kzstd "github.com/klauspost/compress/zstd"

	"github.com/gobeaver/csvkit"
)

// Name is the filter name this package registers.
const Name = "zstd"

func init() {
	csvkit.RegisterFilter(Name, csvkit.Filter{
		NewReader: newReader,
		NewWriter: newWriter,
	})
}

func newReader(r io.Reader, _ csvkit.Params) (io.ReadCloser, error) {
	dec, err := kzstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

func newWriter(w io.Writer, _ csvkit.Params) (csvkit.WriteFlushCloser, error) {
	return kzstd.NewWriter(w)
}
