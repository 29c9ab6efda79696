package csvkit

import (
	"encoding"
	"fmt"
	"strconv"
)

// Writer is a write view over a Document's resource, derived via
// [Document.NewWriter]. Like Reader it is a Document with independent
// configuration copies over the shared resource reference.
//
// The sink is opened lazily on the first written record: the open mode is
// mapped to file flags, the write side of the filter chain is resolved,
// and the output BOM (if configured) is emitted before any record bytes.
// Callers must Close the writer to flush filter buffers and release a
// handle the writer opened.
type Writer struct {
	*Document

	out WriteFlushCloser
	buf []byte
	err error
}

// WriteRecord emits one dialect-formatted record terminated with the
// configured newline.
func (w *Writer) WriteRecord(record []string) error {
	if w.err != nil {
		return w.err
	}
	if w.out == nil {
		if err := w.open(); err != nil {
			w.err = err
			return err
		}
	}

	w.buf = w.Document.dialect.appendRecord(w.buf[:0], record)
	w.buf = append(w.buf, w.Document.newline...)
	if _, err := w.out.Write(w.buf); err != nil {
		w.err = err
		return err
	}
	return nil
}

// WriteAll writes multiple records, stopping at the first error.
func (w *Writer) WriteAll(records [][]string) error {
	for _, record := range records {
		if err := w.WriteRecord(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteAny coerces a heterogeneous record to field strings and writes it.
// Every value must satisfy [IsStringable]; otherwise the record is
// rejected with ErrInvalidArgument and nothing is written.
func (w *Writer) WriteAny(record []any) error {
	fields := make([]string, len(record))
	for i, v := range record {
		s, err := stringify(v)
		if err != nil {
			return err
		}
		fields[i] = s
	}
	return w.WriteRecord(fields)
}

// Flush forces buffered bytes in the filter stack toward the resource.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if w.out == nil {
		return nil
	}
	if err := w.out.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Close closes the filter stack and releases a handle the writer opened.
// A shared handle stays open. Close is a no-op when nothing was written.
func (w *Writer) Close() error {
	if w.out == nil {
		return w.err
	}
	err := w.out.Close()
	w.out = nil
	if err != nil && w.err == nil {
		w.err = err
	}
	return err
}

// Err returns the first error encountered by the writer.
func (w *Writer) Err() error { return w.err }

func (w *Writer) open() error {
	out, err := w.Document.RawWriter()
	if err != nil {
		return err
	}
	w.out = out

	if bom := w.Document.outputBOM; !bom.IsZero() {
		if _, err := w.out.Write(bom.Sequence()); err != nil {
			w.out.Close()
			w.out = nil
			return err
		}
	}
	return nil
}

// stringify coerces one stringable value to its field representation.
func stringify(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int8:
		return strconv.FormatInt(int64(t), 10), nil
	case int16:
		return strconv.FormatInt(int64(t), 10), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case fmt.Stringer:
		return t.String(), nil
	case encoding.TextMarshaler:
		b, err := t.MarshalText()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("%w: value of type %T is not stringable", ErrInvalidArgument, v)
	}
}
