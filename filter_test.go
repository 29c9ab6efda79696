package csvkit

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func init() {
	// Two distinguishable, composable transforms for order verification.
	RegisterFilter("test.upper", Filter{
		NewReader: func(r io.Reader, _ Params) (io.ReadCloser, error) {
			return io.NopCloser(&upperReader{src: r}), nil
		},
		NewWriter: func(w io.Writer, _ Params) (WriteFlushCloser, error) {
			return NopWriteFlushCloser(&upperWriter{dst: w}), nil
		},
	})
	RegisterFilter("test.prefix", Filter{
		NewReader: func(r io.Reader, params Params) (io.ReadCloser, error) {
			value, _ := params.Get("value")
			return io.NopCloser(io.MultiReader(strings.NewReader(value), r)), nil
		},
		NewWriter: func(w io.Writer, params Params) (WriteFlushCloser, error) {
			value, _ := params.Get("value")
			return NopWriteFlushCloser(&prefixWriter{dst: w, prefix: []byte(value)}), nil
		},
	})
	// A read-only filter for direction checks.
	RegisterFilter("test.readonly", Filter{
		NewReader: func(r io.Reader, _ Params) (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
	})
}

type upperReader struct{ src io.Reader }

func (u *upperReader) Read(p []byte) (int, error) {
	n, err := u.src.Read(p)
	copy(p[:n], bytes.ToUpper(p[:n]))
	return n, err
}

type upperWriter struct{ dst io.Writer }

func (u *upperWriter) Write(p []byte) (int, error) {
	if _, err := u.dst.Write(bytes.ToUpper(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

type prefixWriter struct {
	dst     io.Writer
	prefix  []byte
	started bool
}

func (w *prefixWriter) Write(p []byte) (int, error) {
	if !w.started {
		w.started = true
		if _, err := w.dst.Write(w.prefix); err != nil {
			return 0, err
		}
	}
	if _, err := w.dst.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// countingReader records whether any byte was ever requested.
type countingReader struct {
	src   io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.src.Read(p)
}

func TestFilterChainBasics(t *testing.T) {
	c := NewFilterChain()

	if err := c.Append("test.upper", nil, FilterBoth); err != nil {
		t.Fatal(err)
	}
	if err := c.Append("test.prefix", Params{{Key: "value", Value: "x"}}, FilterBoth); err != nil {
		t.Fatal(err)
	}
	if err := c.Prepend("test.readonly", nil, FilterRead); err != nil {
		t.Fatal(err)
	}

	if got, want := c.Len(), 3; got != want {
		t.Fatalf("Len = %d, want %d", got, want)
	}
	wantNames := []string{"test.readonly", "test.upper", "test.prefix"}
	for i, name := range c.Names() {
		if name != wantNames[i] {
			t.Fatalf("Names = %v, want %v", c.Names(), wantNames)
		}
	}

	if !c.Has("test.upper") {
		t.Fatal("Has(test.upper) = false")
	}
	if !c.Remove("test.upper") {
		t.Fatal("Remove(test.upper) = false")
	}
	if c.Has("test.upper") {
		t.Fatal("entry still present after Remove")
	}
	if c.Remove("test.upper") {
		t.Fatal("Remove reported success for an absent entry")
	}
}

func TestFilterChainAppendUnknown(t *testing.T) {
	c := NewFilterChain()

	err := c.Append("no.such.filter", nil, FilterBoth)
	if !IsUnsupportedFilter(err) {
		t.Fatalf("Append unknown filter: got %v, want ErrUnsupportedFilter", err)
	}
	if err := c.Prepend("no.such.filter", nil, FilterBoth); !IsUnsupportedFilter(err) {
		t.Fatalf("Prepend unknown filter: got %v, want ErrUnsupportedFilter", err)
	}
	if c.Len() != 0 {
		t.Fatal("failed Append mutated the chain")
	}
}

// TestFilterChainOrder pins the documented nesting: the first-appended
// filter is the outermost transform. With upper appended first and prefix
// appended second, read-side bytes leave the raw stream, gain the prefix,
// and are uppercased last, so the prefix itself is uppercased too.
func TestFilterChainOrder(t *testing.T) {
	c := NewFilterChain()
	if err := c.Append("test.upper", nil, FilterBoth); err != nil {
		t.Fatal(err)
	}
	if err := c.Append("test.prefix", Params{{Key: "value", Value: "x"}}, FilterBoth); err != nil {
		t.Fatal(err)
	}

	t.Run("read", func(t *testing.T) {
		r, err := c.ResolveReader(strings.NewReader("abc"))
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()

		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "XABC" {
			t.Fatalf("read through chain = %q, want %q", got, "XABC")
		}
	})

	t.Run("write", func(t *testing.T) {
		var raw bytes.Buffer
		w, err := c.ResolveWriter(&raw)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte("abc")); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		// Caller bytes hit upper first (outermost), then gain the
		// prefix on the way to the raw resource.
		if raw.String() != "xABC" {
			t.Fatalf("write through chain = %q, want %q", raw.String(), "xABC")
		}
	})
}

func TestFilterChainResolveUnknownAbortsBeforeRead(t *testing.T) {
	// A chain can reference a name that is no longer resolvable (for
	// instance when it was assembled programmatically); resolution must
	// fail before a single byte is pulled from the resource.
	c := &FilterChain{entries: []filterEntry{{name: "foo", mode: FilterBoth}}}

	src := &countingReader{src: strings.NewReader("data")}
	_, err := c.ResolveReader(src)
	if !IsUnsupportedFilter(err) {
		t.Fatalf("got %v, want ErrUnsupportedFilter", err)
	}
	if src.reads != 0 {
		t.Fatalf("resolution read %d times from the raw stream", src.reads)
	}

	if _, err := c.ResolveWriter(io.Discard); !IsUnsupportedFilter(err) {
		t.Fatalf("ResolveWriter: got %v, want ErrUnsupportedFilter", err)
	}
}

func TestFilterChainModeSelection(t *testing.T) {
	c := NewFilterChain()
	if err := c.Append("test.prefix", Params{{Key: "value", Value: "x"}}, FilterRead); err != nil {
		t.Fatal(err)
	}

	r, err := c.ResolveReader(strings.NewReader("abc"))
	if err != nil {
		t.Fatal(err)
	}
	got, _ := io.ReadAll(r)
	r.Close()
	if string(got) != "xabc" {
		t.Fatalf("read = %q, want %q", got, "xabc")
	}

	// The read-only entry must not participate on the write side.
	var raw bytes.Buffer
	w, err := c.ResolveWriter(&raw)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("abc")); err != nil {
		t.Fatal(err)
	}
	w.Close()
	if raw.String() != "abc" {
		t.Fatalf("write = %q, want %q", raw.String(), "abc")
	}
}

func TestFilterChainDirectionSupport(t *testing.T) {
	c := NewFilterChain()
	if err := c.Append("test.readonly", nil, FilterBoth); err != nil {
		t.Fatal(err)
	}

	if _, err := c.ResolveReader(strings.NewReader("x")); err != nil {
		t.Fatalf("ResolveReader: %v", err)
	}
	if _, err := c.ResolveWriter(io.Discard); !IsUnsupportedFilter(err) {
		t.Fatalf("ResolveWriter on read-only filter: got %v, want ErrUnsupportedFilter", err)
	}
}

func TestFilterChainClone(t *testing.T) {
	c := NewFilterChain()
	if err := c.Append("test.upper", nil, FilterBoth); err != nil {
		t.Fatal(err)
	}

	clone := c.Clone()
	if err := clone.Append("test.prefix", nil, FilterBoth); err != nil {
		t.Fatal(err)
	}

	if c.Len() != 1 || clone.Len() != 2 {
		t.Fatalf("clone aliases the original: %d vs %d entries", c.Len(), clone.Len())
	}
}

func TestParams(t *testing.T) {
	var p Params
	p = p.Set("from", "ISO-8859-1")
	p = p.Set("to", "UTF-8")
	p = p.Set("from", "KOI8-R")

	if got, _ := p.Get("from"); got != "KOI8-R" {
		t.Fatalf("Get(from) = %q", got)
	}
	if _, ok := p.Get("missing"); ok {
		t.Fatal("Get reported a missing key as present")
	}
	// Set must update in place, preserving key order.
	if p[0].Key != "from" || p[1].Key != "to" || len(p) != 2 {
		t.Fatalf("unexpected param layout: %v", p)
	}

	clone := p.Clone()
	clone = clone.Set("to", "UTF-16LE")
	if got, _ := p.Get("to"); got != "UTF-8" {
		t.Fatal("Clone aliases the original bag")
	}
}

func TestFilterRegistered(t *testing.T) {
	if !FilterRegistered("test.upper") {
		t.Fatal("test.upper should be registered")
	}
	if FilterRegistered("no.such.filter") {
		t.Fatal("unknown name reported as registered")
	}
}
