package csvkit

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriterWriteRecord(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		records [][]string
		want    string
	}{
		{
			name:    "plain records",
			records: [][]string{{"a", "b", "c"}, {"d", "e", "f"}},
			want:    "a,b,c\nd,e,f\n",
		},
		{
			name:    "field containing delimiter is enclosed",
			records: [][]string{{"a,b", "c"}},
			want:    "\"a,b\",c\n",
		},
		{
			name:    "field containing enclosure doubles it",
			records: [][]string{{`say "hi"`}},
			want:    "\"say \"\"hi\"\"\"\n",
		},
		{
			name:    "crlf newline",
			opts:    []Option{WithNewline("\r\n")},
			records: [][]string{{"a", "b"}},
			want:    "a,b\r\n",
		},
		{
			name:    "custom dialect",
			opts:    []Option{WithEnclosure('\''), WithDelimiter(';')},
			records: [][]string{{"x;y", "z"}},
			want:    "'x;y';z\n",
		},
		{
			name:    "output bom emitted before first record only",
			opts:    []Option{WithOutputBOM(BOMUTF8)},
			records: [][]string{{"a"}, {"b"}},
			want:    "\xEF\xBB\xBFa\nb\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer(nil)
			doc, err := FromHandle(buf, tt.opts...)
			if err != nil {
				t.Fatal(err)
			}

			w, err := doc.NewWriter("w")
			if err != nil {
				t.Fatal(err)
			}
			if err := w.WriteAll(tt.records); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}

			if buf.String() != tt.want {
				t.Fatalf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriterWriteAny(t *testing.T) {
	buf := NewBuffer(nil)
	doc, err := FromHandle(buf)
	if err != nil {
		t.Fatal(err)
	}

	w, err := doc.NewWriter("w")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteAny([]any{"id", 42, 3.5, true, []byte("raw")}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if got, want := buf.String(), "id,42,3.5,true,raw\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestWriterWriteAnyRejectsUnstringable(t *testing.T) {
	buf := NewBuffer(nil)
	doc, err := FromHandle(buf)
	if err != nil {
		t.Fatal(err)
	}

	w, err := doc.NewWriter("w")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteAny([]any{"ok", struct{}{}}); !IsInvalidArgument(err) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	// The rejected record must not have been partially written.
	if buf.Len() != 0 {
		t.Fatalf("partial write: %q", buf.String())
	}
}

func TestWriterAppendMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("a,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	w, err := doc.NewWriter("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRecord([]string{"c", "d"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "a,b\nc,d\n" {
		t.Fatalf("file = %q", got)
	}
}

func TestWriterHandleAppendMode(t *testing.T) {
	buf := NewBuffer([]byte("a,b\n"))
	doc, err := FromHandle(buf)
	if err != nil {
		t.Fatal(err)
	}

	w, err := doc.NewWriter("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRecord([]string{"c", "d"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if buf.String() != "a,b\nc,d\n" {
		t.Fatalf("buffer = %q", buf.String())
	}
}

// TestWriteReadRoundTrip is the derivation round trip: records written
// through a derived writer come back identical through a derived reader,
// under a non-default dialect.
func TestWriteReadRoundTrip(t *testing.T) {
	records := [][]string{
		{"plain", "fields"},
		{"with;delimiter", "with'enclosure"},
		{`with\escape`, ""},
		{"all;of'them\\at,once"},
	}

	doc, err := FromBytes(nil,
		WithDelimiter(';'),
		WithEnclosure('\''),
	)
	if err != nil {
		t.Fatal(err)
	}

	w, err := doc.NewWriter("w")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteAll(records); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := doc.NewReader()
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("round trip produced %q, want %q", got, records)
	}
}

func TestWriterOutputBOMReadBack(t *testing.T) {
	doc, err := FromBytes(nil, WithOutputBOM(BOMUTF8))
	if err != nil {
		t.Fatal(err)
	}

	w, err := doc.NewWriter("w")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRecord([]string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	// The mark written on output is stripped again on read.
	got, err := doc.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, [][]string{{"a", "b"}}) {
		t.Fatalf("records = %q", got)
	}
}

func TestWriterCloseWithoutWrites(t *testing.T) {
	doc, err := FromBytes(nil)
	if err != nil {
		t.Fatal(err)
	}
	w, err := doc.NewWriter("w")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}
