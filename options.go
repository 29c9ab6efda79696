package csvkit

// Option configures a Document at construction time. Options that carry
// invalid values fail the constructor immediately rather than deferring
// the error to iteration time.
type Option func(*Document) error

// WithOpenMode sets the fopen-style open mode (default "c+").
func WithOpenMode(mode string) Option {
	return func(d *Document) error {
		if _, err := parseOpenMode(mode); err != nil {
			return err
		}
		d.mode = mode
		return nil
	}
}

// WithDelimiter sets the dialect's field delimiter.
func WithDelimiter(b byte) Option {
	return func(d *Document) error {
		return d.dialect.SetDelimiter(b)
	}
}

// WithEnclosure sets the dialect's field enclosure.
func WithEnclosure(b byte) Option {
	return func(d *Document) error {
		return d.dialect.SetEnclosure(b)
	}
}

// WithEscape sets the dialect's escape byte.
func WithEscape(b byte) Option {
	return func(d *Document) error {
		return d.dialect.SetEscape(b)
	}
}

// WithNewline sets the record terminator used on write ("\n" or "\r\n").
func WithNewline(nl string) Option {
	return func(d *Document) error {
		return d.SetNewline(nl)
	}
}

// WithBOMDetection enables or disables auto-detection of a leading
// byte-order mark on read.
func WithBOMDetection(enabled bool) Option {
	return func(d *Document) error {
		d.detectBOM = enabled
		return nil
	}
}

// WithInputBOM forces a specific mark to strip from the first record.
func WithInputBOM(bom BOM) Option {
	return func(d *Document) error {
		d.inputBOM = bom
		return nil
	}
}

// WithOutputBOM selects a mark to emit before the first written record.
func WithOutputBOM(bom BOM) Option {
	return func(d *Document) error {
		d.outputBOM = bom
		return nil
	}
}

// WithFilter appends a filter to the document's chain. The name must be
// registered.
func WithFilter(name string, params Params, mode FilterMode) Option {
	return func(d *Document) error {
		return d.filters.Append(name, params, mode)
	}
}
