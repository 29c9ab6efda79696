package csvkit

import "bytes"

// BOM describes one recognized byte-order mark: its byte sequence, a human
// label, and the IANA charset name it implies.
//
// The zero BOM means "no byte-order mark".
type BOM struct {
	seq     []byte
	label   string
	charset string
}

// Recognized byte-order marks
var (
	BOMUTF8    = BOM{seq: []byte{0xEF, 0xBB, 0xBF}, label: "UTF-8", charset: "UTF-8"}
	BOMUTF16BE = BOM{seq: []byte{0xFE, 0xFF}, label: "UTF-16 (BE)", charset: "UTF-16BE"}
	BOMUTF16LE = BOM{seq: []byte{0xFF, 0xFE}, label: "UTF-16 (LE)", charset: "UTF-16LE"}
	BOMUTF32BE = BOM{seq: []byte{0x00, 0x00, 0xFE, 0xFF}, label: "UTF-32 (BE)", charset: "UTF-32BE"}
	BOMUTF32LE = BOM{seq: []byte{0xFF, 0xFE, 0x00, 0x00}, label: "UTF-32 (LE)", charset: "UTF-32LE"}
)

// bomTable is ordered longest-prefix-first: the UTF-32 marks must be
// checked before the UTF-16 marks that are byte-prefixes of them.
var bomTable = []BOM{
	BOMUTF32BE,
	BOMUTF32LE,
	BOMUTF8,
	BOMUTF16BE,
	BOMUTF16LE,
}

// Sequence returns a copy of the BOM's byte sequence.
func (b BOM) Sequence() []byte {
	return append([]byte(nil), b.seq...)
}

// Label returns the BOM's human-readable label, or "" for the zero BOM.
func (b BOM) Label() string { return b.label }

// Charset returns the IANA charset name the BOM implies, or "" for the
// zero BOM.
func (b BOM) Charset() string { return b.charset }

// Len returns the BOM's length in bytes.
func (b BOM) Len() int { return len(b.seq) }

// IsZero reports whether b is the zero BOM.
func (b BOM) IsZero() bool { return len(b.seq) == 0 }

// DetectBOM compares the buffer prefix against the recognized byte-order
// marks and returns the longest match. ok is false when no mark matches.
func DetectBOM(buf []byte) (bom BOM, ok bool) {
	for _, candidate := range bomTable {
		if bytes.HasPrefix(buf, candidate.seq) {
			return candidate, true
		}
	}
	return BOM{}, false
}

// StripBOM removes the given mark from the front of buf. The buffer is
// returned unchanged when it does not start with the mark.
func StripBOM(buf []byte, bom BOM) []byte {
	if bom.IsZero() || !bytes.HasPrefix(buf, bom.seq) {
		return buf
	}
	return buf[len(bom.seq):]
}

// InjectBOM prepends the mark's byte sequence to buf unless it is already
// present.
func InjectBOM(buf []byte, bom BOM) []byte {
	if bom.IsZero() || bytes.HasPrefix(buf, bom.seq) {
		return buf
	}
	out := make([]byte, 0, len(bom.seq)+len(buf))
	out = append(out, bom.seq...)
	return append(out, buf...)
}

// DetectEncoding guesses the charset of a buffer from its byte-order mark.
// It returns the IANA charset name, or "" when no mark is present. The
// result can be fed to the convert.charset filter's "from" parameter.
func DetectEncoding(buf []byte) string {
	if bom, ok := DetectBOM(buf); ok {
		return bom.Charset()
	}
	return ""
}

// bomByLabel resolves a config value to a recognized mark. Both the human
// label ("UTF-16 (LE)") and the charset name ("UTF-16LE") are accepted.
func bomByLabel(label string) (BOM, bool) {
	for _, candidate := range bomTable {
		if label == candidate.label || label == candidate.charset {
			return candidate, true
		}
	}
	return BOM{}, false
}
