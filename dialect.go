package csvkit

import "fmt"

// Default dialect bytes
const (
	DefaultDelimiter byte = ','
	DefaultEnclosure byte = '"'
	DefaultEscape    byte = '\\'
)

// Dialect is the triple (delimiter, enclosure, escape) governing how a raw
// line splits into fields. All three bytes must be mutually distinct; the
// setters reject values that would collide or that can never act as a
// dialect byte (NUL, CR, LF).
//
// A Dialect is owned by exactly one Document. Deriving a Document copies
// the dialect, so views never alias each other's configuration.
type Dialect struct {
	delimiter byte
	enclosure byte
	escape    byte
}

// NewDialect returns a dialect with the default bytes: comma delimiter,
// double-quote enclosure, backslash escape.
func NewDialect() *Dialect {
	return &Dialect{
		delimiter: DefaultDelimiter,
		enclosure: DefaultEnclosure,
		escape:    DefaultEscape,
	}
}

// Delimiter returns the field delimiter byte.
func (d *Dialect) Delimiter() byte { return d.delimiter }

// Enclosure returns the field enclosure byte.
func (d *Dialect) Enclosure() byte { return d.enclosure }

// Escape returns the escape byte.
func (d *Dialect) Escape() byte { return d.escape }

// SetDelimiter sets the field delimiter. The byte must be usable as a
// dialect byte and distinct from the enclosure and escape bytes.
func (d *Dialect) SetDelimiter(b byte) error {
	if err := d.validate("delimiter", b, d.enclosure, d.escape); err != nil {
		return err
	}
	d.delimiter = b
	return nil
}

// SetEnclosure sets the field enclosure. The byte must be usable as a
// dialect byte and distinct from the delimiter and escape bytes.
func (d *Dialect) SetEnclosure(b byte) error {
	if err := d.validate("enclosure", b, d.delimiter, d.escape); err != nil {
		return err
	}
	d.enclosure = b
	return nil
}

// SetEscape sets the escape byte. The byte must be usable as a dialect
// byte and distinct from the delimiter and enclosure bytes.
func (d *Dialect) SetEscape(b byte) error {
	if err := d.validate("escape", b, d.delimiter, d.enclosure); err != nil {
		return err
	}
	d.escape = b
	return nil
}

func (d *Dialect) validate(role string, b, other1, other2 byte) error {
	switch b {
	case 0:
		return fmt.Errorf("%w: %s must be a single non-empty byte", ErrInvalidArgument, role)
	case '\n', '\r':
		return fmt.Errorf("%w: %s cannot be a newline byte", ErrInvalidArgument, role)
	case other1, other2:
		return fmt.Errorf("%w: %s %q collides with another dialect byte", ErrInvalidArgument, role, b)
	}
	return nil
}

// Clone returns an independent copy of the dialect.
func (d *Dialect) Clone() *Dialect {
	c := *d
	return &c
}

// Parsing states for Split.
const (
	stateOutside = iota
	stateInsideEnclosure
	stateAfterEscape
)

// Split splits one raw line (without its terminating newline) into fields.
//
// The machine is deliberately permissive, mirroring real-world CSV
// consumption:
//
//   - An enclosure byte encountered outside an enclosure opens a quoted
//     field; delimiter bytes inside it are literal.
//   - Inside an enclosure, the escape byte is consumed and the following
//     byte is kept literally, whatever it is.
//   - A doubled enclosure inside an enclosure yields one literal
//     enclosure byte.
//   - An enclosure left unterminated at end of line keeps the remainder
//     as literal field content.
//
// Split never fails; malformed quoting degrades to best-effort field
// reconstruction rather than an error.
func (d *Dialect) Split(line []byte) []string {
	fields := make([]string, 0, 8)
	field := make([]byte, 0, 32)
	state := stateOutside

	for i := 0; i < len(line); i++ {
		b := line[i]

		switch state {
		case stateOutside:
			switch b {
			case d.delimiter:
				fields = append(fields, string(field))
				field = field[:0]
			case d.enclosure:
				state = stateInsideEnclosure
			default:
				field = append(field, b)
			}

		case stateInsideEnclosure:
			switch b {
			case d.escape:
				state = stateAfterEscape
			case d.enclosure:
				if i+1 < len(line) && line[i+1] == d.enclosure {
					// Doubled enclosure is a literal enclosure byte.
					field = append(field, d.enclosure)
					i++
				} else {
					state = stateOutside
				}
			default:
				field = append(field, b)
			}

		case stateAfterEscape:
			field = append(field, b)
			state = stateInsideEnclosure
		}
	}

	// A dangling escape at end of line is kept literally rather than
	// dropped: the parser must not lose data on malformed input.
	if state == stateAfterEscape {
		field = append(field, d.escape)
	}

	return append(fields, string(field))
}

// fieldNeedsEnclosure reports whether a field must be enclosed so that
// Split reconstructs it byte for byte.
func (d *Dialect) fieldNeedsEnclosure(field string) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case d.delimiter, d.enclosure, d.escape, '\n', '\r':
			return true
		}
	}
	return false
}

// appendField appends one dialect-formatted field to dst. Enclosed fields
// double embedded enclosure and escape bytes, the exact inverse of Split.
func (d *Dialect) appendField(dst []byte, field string) []byte {
	if !d.fieldNeedsEnclosure(field) {
		return append(dst, field...)
	}

	dst = append(dst, d.enclosure)
	for i := 0; i < len(field); i++ {
		switch b := field[i]; b {
		case d.enclosure:
			dst = append(dst, d.enclosure, d.enclosure)
		case d.escape:
			dst = append(dst, d.escape, d.escape)
		default:
			dst = append(dst, b)
		}
	}
	return append(dst, d.enclosure)
}

// appendRecord appends a full dialect-formatted record (without newline)
// to dst.
func (d *Dialect) appendRecord(dst []byte, record []string) []byte {
	for i, field := range record {
		if i > 0 {
			dst = append(dst, d.delimiter)
		}
		dst = d.appendField(dst, field)
	}
	return dst
}
