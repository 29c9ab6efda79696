package csvkit

import (
	"bufio"
	"io"
)

// Records iterates the dialect-split records of a Document's resource in
// strict file order. Obtain one from [Document.Records]; every call
// starts at the beginning of the resource.
//
// The usual loop:
//
//	for records.Next() {
//	    fields := records.Record()
//	    ...
//	}
//	if err := records.Err(); err != nil { ... }
type Records struct {
	src io.ReadCloser
	br  *bufio.Reader

	dialect   *Dialect
	detectBOM bool
	inputBOM  BOM

	first  bool
	record []string
	err    error
	closed bool
}

// Records returns an iterator over the resource's records. A PathBound
// document opens a fresh read-only handle owned by the iterator; a
// HandleBound document rewinds and reuses the shared handle.
//
// Configuration is snapshotted: mutating the document after this call
// does not affect an iterator already produced.
func (d *Document) Records() (*Records, error) {
	src, err := d.RawReader()
	if err != nil {
		return nil, err
	}
	return &Records{
		src:       src,
		br:        bufio.NewReader(src),
		dialect:   d.dialect.Clone(),
		detectBOM: d.detectBOM,
		inputBOM:  d.inputBOM,
		first:     true,
	}, nil
}

// Next advances to the next non-empty record. It returns false when the
// input is exhausted or a read error occurred; Err distinguishes the two.
func (r *Records) Next() bool {
	if r.err != nil || r.closed {
		return false
	}

	for {
		line, err := r.readLine()
		if err != nil {
			if err != io.EOF {
				r.err = err
			}
			return false
		}

		if r.first {
			line = r.stripLeadingBOM(line)
			r.first = false
		}

		// Records exist per non-empty line only.
		if len(line) == 0 {
			continue
		}

		r.record = r.dialect.Split(line)
		return true
	}
}

// Record returns the fields of the record produced by the last successful
// call to Next.
func (r *Records) Record() []string { return r.record }

// Err returns the first error encountered while reading. It is nil after
// a clean end of input.
func (r *Records) Err() error { return r.err }

// Close releases the iterator. A handle the iterator opened itself is
// closed; a handle shared with the parent document is left open.
func (r *Records) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.src.Close()
}

// readLine reads one line with the trailing newline bytes removed. Both
// LF and CRLF terminate a line. io.EOF is returned only when no bytes
// remain; a final line without a terminator is still delivered.
func (r *Records) readLine() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if err != nil && (err != io.EOF || len(line) == 0) {
		return nil, err
	}

	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
		if n > 0 && line[n-1] == '\r' {
			n--
		}
	}
	return line[:n], nil
}

// stripLeadingBOM removes the input mark from the very first line only.
// Later records are never scanned, even if they happen to start with the
// same bytes.
func (r *Records) stripLeadingBOM(line []byte) []byte {
	if !r.inputBOM.IsZero() {
		return StripBOM(line, r.inputBOM)
	}
	if r.detectBOM {
		if bom, ok := DetectBOM(line); ok {
			return StripBOM(line, bom)
		}
	}
	return line
}

// ReadAll iterates the whole resource and returns every record in file
// order.
func (d *Document) ReadAll() ([][]string, error) {
	records, err := d.Records()
	if err != nil {
		return nil, err
	}
	defer records.Close()

	var all [][]string
	for records.Next() {
		all = append(all, records.Record())
	}
	if err := records.Err(); err != nil {
		return nil, err
	}
	return all, nil
}
