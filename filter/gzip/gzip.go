// Package gzip registers the "zlib.gzip" stream filter: gzip compression
// on write and decompression on read.
//
// Import it for side effects:
//
//	import _ "github.com/gobeaver/csvkit/filter/gzip"
//
// The write side accepts a "level" parameter (an integer compression
// level, or -1 for the default).
package gzip

import (
	"fmt"
	"io"
	"strconv"

	kgzip "github.com/klauspost/compress/gzip"

	"github.com/gobeaver/csvkit"
)

// Name is the filter name this package registers.
const Name = "zlib.gzip"

func init() {
	csvkit.RegisterFilter(Name, csvkit.Filter{
		NewReader: newReader,
		NewWriter: newWriter,
	})
}

func newReader(r io.Reader, _ csvkit.Params) (io.ReadCloser, error) {
	return kgzip.NewReader(r)
}

func newWriter(w io.Writer, params csvkit.Params) (csvkit.WriteFlushCloser, error) {
	level := kgzip.DefaultCompression
	if s, ok := params.Get("level"); ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip level %q is not an integer", csvkit.ErrInvalidArgument, s)
		}
		level = n
	}
	return kgzip.NewWriterLevel(w, level)
}
