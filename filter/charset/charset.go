// Package charset registers the "convert.charset" stream filter, which
// transcodes between character encodings by IANA name.
//
// Import it for side effects:
//
//	import _ "github.com/gobeaver/csvkit/filter/charset"
//
// Parameters:
//
//   - "from": the charset the stored resource bytes are in
//   - "to": the charset the caller works in (default UTF-8)
//
// On read the filter decodes from → to; on write it encodes to → from, so
// one chain entry registered for both directions round-trips: the
// resource stays in "from" while the caller always sees "to".
package charset

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/gobeaver/csvkit"
)

// Name is the filter name this package registers.
const Name = "convert.charset"

func init() {
	csvkit.RegisterFilter(Name, csvkit.Filter{
		NewReader: newReader,
		NewWriter: newWriter,
	})
}

func lookup(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: unknown charset %q", csvkit.ErrInvalidArgument, name)
	}
	return enc, nil
}

// transformers builds the transform sequence for one direction. src is
// decoded to UTF-8, then encoded to dst; empty names mean UTF-8 and
// contribute no step.
func transformers(src, dst string) ([]transform.Transformer, error) {
	var chain []transform.Transformer
	if src != "" {
		enc, err := lookup(src)
		if err != nil {
			return nil, err
		}
		chain = append(chain, enc.NewDecoder())
	}
	if dst != "" {
		enc, err := lookup(dst)
		if err != nil {
			return nil, err
		}
		chain = append(chain, enc.NewEncoder())
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: convert.charset requires a \"from\" or \"to\" parameter", csvkit.ErrInvalidArgument)
	}
	return chain, nil
}

func newReader(r io.Reader, params csvkit.Params) (io.ReadCloser, error) {
	from, _ := params.Get("from")
	to, _ := params.Get("to")
	chain, err := transformers(from, to)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(transform.NewReader(r, transform.Chain(chain...))), nil
}

func newWriter(w io.Writer, params csvkit.Params) (csvkit.WriteFlushCloser, error) {
	from, _ := params.Get("from")
	to, _ := params.Get("to")
	// Write runs the inverse direction of read.
	chain, err := transformers(to, from)
	if err != nil {
		return nil, err
	}
	return &writeCloser{transform.NewWriter(w, transform.Chain(chain...))}, nil
}

// writeCloser adapts transform.Writer, which flushes only on Close.
type writeCloser struct {
	*transform.Writer
}

func (writeCloser) Flush() error { return nil }
