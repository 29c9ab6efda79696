package csvkit

import (
	"encoding"
	"fmt"
	"io"
	"os"
	"reflect"
)

// Document is the configured binding between a resource reference and a
// Dialect, a BOM policy, and a FilterChain. It is the parent object that
// record iterators and derived Reader/Writer views are produced from.
//
// A Document is either PathBound or HandleBound, decided once at
// construction:
//
//   - PathBound documents open a fresh handle per iterator or writer and
//     close it deterministically when the view is closed.
//   - HandleBound documents reuse the exact handle they were given for
//     every view and never close it. Two concurrently active views of a
//     HandleBound document share the handle's cursor; serializing their
//     use is the caller's responsibility.
//
// Construction never touches the resource; open failures surface at
// access time as ErrInvalidPath.
type Document struct {
	res  resource
	mode string

	dialect   *Dialect
	detectBOM bool
	inputBOM  BOM
	outputBOM BOM
	newline   string
	filters   *FilterChain
}

// New creates a Document from a resource reference: an open [Handle], a
// [FileRef] descriptor (reduced to its joined path), or a raw path string
// (surrounding whitespace trimmed).
func New(ref any, opts ...Option) (*Document, error) {
	res, err := normalizeResource(ref)
	if err != nil {
		return nil, err
	}

	d := &Document{
		res:       res,
		mode:      DefaultOpenMode,
		dialect:   NewDialect(),
		detectBOM: true,
		newline:   "\n",
		filters:   NewFilterChain(),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Open creates a PathBound Document for the given path.
func Open(path string, opts ...Option) (*Document, error) {
	return New(path, opts...)
}

// FromHandle creates a HandleBound Document over an already-open handle.
// The Document shares the handle with the caller and never closes it.
func FromHandle(h Handle, opts ...Option) (*Document, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: resource reference is nil", ErrInvalidArgument)
	}
	return New(h, opts...)
}

// FromBytes creates a Document over an in-memory Buffer seeded with data.
func FromBytes(data []byte, opts ...Option) (*Document, error) {
	return New(NewBuffer(data), opts...)
}

// ============================================================================
// Dialect operations (exposed through the Document)
// ============================================================================

// Dialect returns the document's dialect. The dialect is owned by the
// document; mutating it affects this document only.
func (d *Document) Dialect() *Dialect { return d.dialect }

// SetDelimiter sets the dialect's field delimiter.
func (d *Document) SetDelimiter(b byte) error { return d.dialect.SetDelimiter(b) }

// SetEnclosure sets the dialect's field enclosure.
func (d *Document) SetEnclosure(b byte) error { return d.dialect.SetEnclosure(b) }

// SetEscape sets the dialect's escape byte.
func (d *Document) SetEscape(b byte) error { return d.dialect.SetEscape(b) }

// ============================================================================
// BOM policy
// ============================================================================

// SetBOMDetection enables or disables auto-detection of a leading
// byte-order mark on read. Detection is on by default.
func (d *Document) SetBOMDetection(enabled bool) { d.detectBOM = enabled }

// BOMDetection reports whether input BOM auto-detection is enabled.
func (d *Document) BOMDetection() bool { return d.detectBOM }

// SetInputBOM forces a specific mark to be stripped from the first record
// instead of auto-detecting one.
func (d *Document) SetInputBOM(bom BOM) { d.inputBOM = bom }

// InputBOM returns the forced input mark, zero when auto-detecting.
func (d *Document) InputBOM() BOM { return d.inputBOM }

// SetOutputBOM selects a mark to emit before the first written record.
// The zero BOM disables emission (the default).
func (d *Document) SetOutputBOM(bom BOM) { d.outputBOM = bom }

// OutputBOM returns the mark emitted on write, zero when none.
func (d *Document) OutputBOM() BOM { return d.outputBOM }

// SetNewline sets the record terminator used on write. Only "\n" and
// "\r\n" are valid.
func (d *Document) SetNewline(nl string) error {
	if nl != "\n" && nl != "\r\n" {
		return fmt.Errorf("%w: newline must be \"\\n\" or \"\\r\\n\"", ErrInvalidArgument)
	}
	d.newline = nl
	return nil
}

// Newline returns the record terminator used on write.
func (d *Document) Newline() string { return d.newline }

// OpenMode returns the document's fopen-style open mode.
func (d *Document) OpenMode() string { return d.mode }

// ============================================================================
// Filter chain
// ============================================================================

// AppendFilter adds a filter at the end of the chain (closest to the raw
// resource).
func (d *Document) AppendFilter(name string, params Params, mode FilterMode) error {
	return d.filters.Append(name, params, mode)
}

// PrependFilter adds a filter at the front of the chain (outermost
// transform).
func (d *Document) PrependFilter(name string, params Params, mode FilterMode) error {
	return d.filters.Prepend(name, params, mode)
}

// RemoveFilter removes the first chain entry with the given name.
func (d *Document) RemoveFilter(name string) bool { return d.filters.Remove(name) }

// HasFilter reports whether the chain contains the given filter name.
func (d *Document) HasFilter(name string) bool { return d.filters.Has(name) }

// Filters returns a snapshot of the document's filter chain. Mutating the
// snapshot does not affect the document.
func (d *Document) Filters() *FilterChain { return d.filters.Clone() }

// ============================================================================
// Derivation
// ============================================================================

// Derive constructs a new Document bound to the same resource reference
// with field-for-field copies of the dialect, BOM policy, newline, and
// filter chain. The derived document is fully independent for subsequent
// mutation; only the resource reference is shared.
func (d *Document) Derive(openMode string) (*Document, error) {
	if _, err := parseOpenMode(openMode); err != nil {
		return nil, err
	}
	return &Document{
		res:       d.res,
		mode:      openMode,
		dialect:   d.dialect.Clone(),
		detectBOM: d.detectBOM,
		inputBOM:  d.inputBOM,
		outputBOM: d.outputBOM,
		newline:   d.newline,
		filters:   d.filters.Clone(),
	}, nil
}

// NewReader derives a read view sharing this document's resource and
// configuration. The default open mode is "r+".
func (d *Document) NewReader(openMode ...string) (*Reader, error) {
	mode := "r+"
	if len(openMode) > 0 {
		mode = openMode[0]
	}
	derived, err := d.Derive(mode)
	if err != nil {
		return nil, err
	}
	return &Reader{Document: derived}, nil
}

// NewWriter derives a write view sharing this document's resource and
// configuration. The default open mode is "r+".
func (d *Document) NewWriter(openMode ...string) (*Writer, error) {
	mode := "r+"
	if len(openMode) > 0 {
		mode = openMode[0]
	}
	derived, err := d.Derive(mode)
	if err != nil {
		return nil, err
	}
	if flag, _ := parseOpenMode(mode); flag&(os.O_WRONLY|os.O_RDWR) == 0 {
		return nil, fmt.Errorf("%w: open mode %q does not permit writes", ErrReadOnly, mode)
	}
	return &Writer{Document: derived}, nil
}

// ============================================================================
// Raw stream access
// ============================================================================

// RawReader opens the resource for reading and wraps it with the read
// side of the filter chain. No dialect or BOM processing is applied.
// Closing the result releases any handle this call opened; a shared
// handle is left open.
func (d *Document) RawReader() (io.ReadCloser, error) {
	raw, closer, err := d.openRead()
	if err != nil {
		return nil, err
	}
	filtered, err := d.filters.ResolveReader(raw)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	return &rawReadCloser{ReadCloser: filtered, owned: closer}, nil
}

// RawWriter opens the resource for writing and wraps it with the write
// side of the filter chain. No dialect or BOM processing is applied.
func (d *Document) RawWriter() (WriteFlushCloser, error) {
	raw, closer, err := d.openWrite()
	if err != nil {
		return nil, err
	}
	filtered, err := d.filters.ResolveWriter(raw)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	return &rawWriteCloser{stack: filtered, raw: raw, owned: closer}, nil
}

// openRead yields the raw byte source for an iterator. HandleBound
// documents rewind and reuse the shared handle (owned closer is nil);
// PathBound documents open a fresh read-only handle the caller owns.
func (d *Document) openRead() (io.Reader, io.Closer, error) {
	if d.res.handleBound() {
		if _, err := d.res.handle.Seek(0, io.SeekStart); err != nil {
			return nil, nil, &PathError{Op: "read", Path: d.res.name(), Err: err}
		}
		return d.res.handle, nil, nil
	}
	f, err := d.res.openPath("read", os.O_RDONLY)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

// openWrite yields the raw byte sink for a writer. Append modes position
// at the end of the resource, truncating modes drop existing content,
// all others write from the start.
func (d *Document) openWrite() (io.Writer, io.Closer, error) {
	flag, err := parseOpenMode(d.mode)
	if err != nil {
		return nil, nil, err
	}
	if flag&(os.O_WRONLY|os.O_RDWR) == 0 {
		return nil, nil, fmt.Errorf("%w: open mode %q does not permit writes", ErrReadOnly, d.mode)
	}

	if d.res.handleBound() {
		h := d.res.handle
		switch {
		case flag&os.O_APPEND != 0:
			if _, err := h.Seek(0, io.SeekEnd); err != nil {
				return nil, nil, &PathError{Op: "write", Path: d.res.name(), Err: err}
			}
		case flag&os.O_TRUNC != 0:
			if t, ok := h.(interface{ Truncate() }); ok {
				t.Truncate()
			} else if _, err := h.Seek(0, io.SeekStart); err != nil {
				return nil, nil, &PathError{Op: "write", Path: d.res.name(), Err: err}
			}
		default:
			if _, err := h.Seek(0, io.SeekStart); err != nil {
				return nil, nil, &PathError{Op: "write", Path: d.res.name(), Err: err}
			}
		}
		return h, nil, nil
	}

	f, err := d.res.openPath("write", flag)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

// rawReadCloser pairs a resolved read stack with the handle it owns.
type rawReadCloser struct {
	io.ReadCloser
	owned io.Closer
}

func (r *rawReadCloser) Close() error {
	err := r.ReadCloser.Close()
	if r.owned != nil {
		if cerr := r.owned.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// rawWriteCloser pairs a resolved write stack with the handle it owns.
type rawWriteCloser struct {
	stack WriteFlushCloser
	raw   io.Writer
	owned io.Closer
}

func (w *rawWriteCloser) Write(p []byte) (int, error) { return w.stack.Write(p) }

func (w *rawWriteCloser) Flush() error { return w.stack.Flush() }

func (w *rawWriteCloser) Close() error {
	err := w.stack.Close()
	if w.owned != nil {
		if cerr := w.owned.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ============================================================================
// Stringable predicate
// ============================================================================

// IsStringable reports whether a value can be coerced to a record field:
// strings, booleans, integer/float kinds, []byte, and values exposing a
// string conversion via fmt.Stringer or encoding.TextMarshaler.
func IsStringable(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case string, []byte, bool:
		return true
	case fmt.Stringer, encoding.TextMarshaler:
		return true
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// Verify interface compliance at compile time
var (
	_ io.ReadCloser    = (*rawReadCloser)(nil)
	_ WriteFlushCloser = (*rawWriteCloser)(nil)
)
