package csvkit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Handle is the capability set a Document needs from an already-open
// resource: seekable reads and appendable writes. *os.File and *Buffer
// both satisfy it.
//
// A Document never closes a Handle it was given; the handle stays owned
// by the caller.
type Handle interface {
	io.Reader
	io.Writer
	io.Seeker
}

// FileRef is a structured file descriptor: a directory and a base name.
// Document construction reduces it to a plain joined path.
type FileRef struct {
	Dir  string
	Base string
}

// Path returns the joined path of the descriptor.
func (f *FileRef) Path() string {
	return filepath.Join(f.Dir, f.Base)
}

// resource is the tagged variant a Document binds to, resolved once at
// construction: either an open handle or a path string, never both.
type resource struct {
	handle Handle
	path   string
}

func (r resource) handleBound() bool { return r.handle != nil }

// name returns the path for PathBound resources and a placeholder for
// HandleBound ones, for use in PathError values.
func (r resource) name() string {
	if r.handleBound() {
		return "<handle>"
	}
	return r.path
}

// normalizeResource reduces a resource reference to the tagged variant.
// Accepted references: a Handle, a *FileRef or FileRef, or a raw path
// string (surrounding whitespace trimmed). Normalization never touches
// the resource itself.
func normalizeResource(ref any) (resource, error) {
	switch v := ref.(type) {
	case nil:
		return resource{}, fmt.Errorf("%w: resource reference is nil", ErrInvalidArgument)
	case Handle:
		return resource{handle: v}, nil
	case *FileRef:
		if v == nil {
			return resource{}, fmt.Errorf("%w: resource reference is nil", ErrInvalidArgument)
		}
		return resource{path: v.Path()}, nil
	case FileRef:
		return resource{path: v.Path()}, nil
	case string:
		path := strings.TrimSpace(v)
		if path == "" {
			return resource{}, fmt.Errorf("%w: empty path", ErrInvalidArgument)
		}
		return resource{path: path}, nil
	default:
		return resource{}, fmt.Errorf("%w: unsupported resource reference type %T", ErrInvalidArgument, ref)
	}
}

// DefaultOpenMode is the open mode used when none is given:
// read-write, created if missing, never truncated.
const DefaultOpenMode = "c+"

// parseOpenMode maps an fopen-style mode string to os.OpenFile flags.
// Recognized modes: r, r+, w, w+, a, a+, x, x+, c, c+, each optionally
// suffixed with 'b' or 't' (ignored; byte streams have no text mode).
func parseOpenMode(mode string) (int, error) {
	if mode == "" {
		return 0, fmt.Errorf("%w: open mode must be non-empty", ErrInvalidArgument)
	}

	trimmed := strings.TrimRight(mode, "bt")
	var flag int
	switch trimmed {
	case "r":
		flag = os.O_RDONLY
	case "r+":
		flag = os.O_RDWR
	case "w":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "w+":
		flag = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	case "a":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case "a+":
		flag = os.O_RDWR | os.O_CREATE | os.O_APPEND
	case "x":
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	case "x+":
		flag = os.O_RDWR | os.O_CREATE | os.O_EXCL
	case "c":
		flag = os.O_WRONLY | os.O_CREATE
	case "c+":
		flag = os.O_RDWR | os.O_CREATE
	default:
		return 0, fmt.Errorf("%w: unknown open mode %q", ErrInvalidArgument, mode)
	}
	return flag, nil
}

// openPath opens a PathBound resource with the given flags, wrapping
// open failures in a PathError carrying ErrInvalidPath.
func (r resource) openPath(op string, flag int) (*os.File, error) {
	f, err := os.OpenFile(r.path, flag, 0o644)
	if err != nil {
		return nil, &PathError{Op: op, Path: r.path, Err: fmt.Errorf("%w: %v", ErrInvalidPath, err)}
	}
	return f, nil
}

// Buffer is a seekable in-memory Handle. It grows on write and serves as
// the resource for buffer-backed Documents and for tests.
//
// The zero Buffer is ready to use. Buffer is not safe for concurrent use.
type Buffer struct {
	data []byte
	off  int64
}

// NewBuffer returns a Buffer seeded with a copy of data, positioned at
// the start.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: append([]byte(nil), data...)}
}

// Bytes returns the buffer's current contents. The slice is only valid
// until the next write.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the buffer's length in bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Read reads from the current position.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.off:])
	b.off += int64(n)
	return n, nil
}

// Write writes at the current position, growing the buffer as needed.
func (b *Buffer) Write(p []byte) (int, error) {
	end := b.off + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.off:end], p)
	b.off = end
	return len(p), nil
}

// Seek sets the position for the next Read or Write.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.off + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("%w: invalid whence %d", ErrInvalidArgument, whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("%w: negative seek offset", ErrInvalidArgument)
	}
	b.off = abs
	return abs, nil
}

// Truncate drops the buffer contents and rewinds to the start.
func (b *Buffer) Truncate() {
	b.data = b.data[:0]
	b.off = 0
}

// String returns the buffer contents as a string.
func (b *Buffer) String() string { return string(b.data) }

// Verify interface compliance at compile time
var (
	_ Handle = (*Buffer)(nil)
	_ Handle = (*os.File)(nil)
)
